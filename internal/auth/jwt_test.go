package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(m *TokenManager, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", m.Authenticate(), RequireRole(role), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c.Request.Context()))
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "pos", time.Hour)
	token, err := m.Generate("cashier-1", RoleSales)
	require.NoError(t, err)

	user, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, UserContext{UserID: "cashier-1", Role: RoleSales}, user)
}

func TestParse_RejectsForeignSecretAndExpired(t *testing.T) {
	m := NewTokenManager("secret", "pos", time.Hour)

	foreign, err := NewTokenManager("other", "pos", time.Hour).Generate("u", RoleSales)
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.Error(t, err)

	expired, err := NewTokenManager("secret", "pos", -time.Minute).Generate("u", RoleSales)
	require.NoError(t, err)
	_, err = m.Parse(expired)
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	m := NewTokenManager("secret", "pos", time.Hour)
	r := newRouter(m, RoleSales)

	w := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	warehouse, _ := m.Generate("w1", RoleWarehouse)
	w = call(r, warehouse)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cashier, _ := m.Generate("c1", RoleSales)
	w = call(r, cashier)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", w.Body.String())

	admin, _ := m.Generate("a1", RoleAdmin)
	w = call(r, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
