package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// InsertProduct stores a product with the given sale price and stock and
// returns its id. The purchase price is fixed at 1.
func InsertProduct(t testing.TB, db *sqlx.DB, barcode, name, priceSale string, stok int) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := db.Exec(db.Rebind(`
        INSERT INTO products (id, barcode, name, price_purchase, price_sale, stok, num_sales, created_at, updated_at)
        VALUES (?, ?, ?, '1', ?, ?, 0, ?, ?)`),
		id, barcode, name, priceSale, stok, now, now)
	if err != nil {
		t.Fatalf("insert product %s: %v", barcode, err)
	}
	return id
}

// ProductStock returns stok and num_sales of a product.
func ProductStock(t testing.TB, db *sqlx.DB, id string) (stok, numSales int) {
	t.Helper()
	row := db.QueryRowx(db.Rebind(`SELECT stok, num_sales FROM products WHERE id = ?`), id)
	if err := row.Scan(&stok, &numSales); err != nil {
		t.Fatalf("read stock of %s: %v", id, err)
	}
	return stok, numSales
}
