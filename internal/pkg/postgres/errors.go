package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation) || containsMessage(err, "UNIQUE constraint failed")
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation) || containsMessage(err, "FOREIGN KEY constraint failed")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// SQLite reports constraint failures only through the message text.
func containsMessage(err error, msg string) bool {
	return err != nil && strings.Contains(err.Error(), msg)
}
