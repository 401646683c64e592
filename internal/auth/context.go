package auth

import "context"

const (
	RoleAdmin     = "admin"
	RoleSales     = "ventas"
	RoleWarehouse = "almacen"
)

type UserContext struct {
	UserID string
	Role   string
}

type userKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(UserContext)
	return u, ok
}

// GetUserID returns "" when the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	u, _ := FromContext(ctx)
	return u.UserID
}

// HasRole reports whether u may act as role. Admins hold every role.
func (u UserContext) HasRole(role string) bool {
	return u.Role == role || u.Role == RoleAdmin
}
