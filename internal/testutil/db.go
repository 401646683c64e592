// Package testutil provides a migrated SQLite database for repository and
// usecase tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewDB opens a fresh file-backed SQLite database under t.TempDir with the
// service schema applied. It is closed when the test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pos.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := postgres.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
