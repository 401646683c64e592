package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// updateStock runs a guarded UPDATE ... RETURNING stok. No row means either
// the product is gone or the guard refused the change.
func (r *PGRepository) updateStock(ctx context.Context, productID string, refused error, query string, args ...interface{}) (int, error) {
	q := postgres.Executor(ctx, r.DB)
	var stok int
	err := sqlx.GetContext(ctx, q, &stok, q.Rebind(query), args...)
	if err == nil {
		return stok, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var exists int
	if err := sqlx.GetContext(ctx, q, &exists, q.Rebind(`SELECT count(*) FROM products WHERE id = ?`), productID); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, fmt.Errorf("%w: product %s", model.ErrNotFound, productID)
	}
	return 0, fmt.Errorf("%w: product %s", refused, productID)
}

func (r *PGRepository) Sell(ctx context.Context, productID string, qty int) (int, error) {
	return r.updateStock(ctx, productID, model.ErrInsufficientStock, `
        UPDATE products
        SET stok = stok - ?, num_sales = num_sales + ?, updated_at = ?
        WHERE id = ? AND stok >= ?
        RETURNING stok
    `, qty, qty, time.Now().UTC(), productID, qty)
}

func (r *PGRepository) Restore(ctx context.Context, productID string, qty int) (int, error) {
	return r.updateStock(ctx, productID, model.ErrConflict, `
        UPDATE products
        SET stok = stok + ?,
            num_sales = CASE WHEN num_sales >= ? THEN num_sales - ? ELSE 0 END,
            updated_at = ?
        WHERE id = ?
        RETURNING stok
    `, qty, qty, qty, time.Now().UTC(), productID)
}

func (r *PGRepository) Adjust(ctx context.Context, productID string, delta int) (int, error) {
	return r.updateStock(ctx, productID, model.ErrInsufficientStock, `
        UPDATE products
        SET stok = stok + ?, updated_at = ?
        WHERE id = ? AND stok + ? >= 0
        RETURNING stok
    `, delta, time.Now().UTC(), productID, delta)
}

func (r *PGRepository) ListLowStock(ctx context.Context, f *dto.LowStockFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int
	q := postgres.Executor(ctx, r.DB)

	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(`SELECT count(*) FROM products WHERE stok <= ?`), f.Threshold); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM products WHERE stok <= ? ORDER BY stok ASC, name ASC`
	if f.PageSize > 0 {
		query += pagination(f.Page, f.PageSize)
	}
	if err := sqlx.SelectContext(ctx, q, &products, q.Rebind(query), f.Threshold); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, product_id, movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	items := []model.InventoryMovement{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := postgres.Executor(ctx, r.DB)

	countQuery, countArgs, err := q.BindNamed("SELECT count(*) FROM inventory_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		query += pagination(f.Page, f.PageSize)
	}

	listQuery, listArgs, err := q.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.SelectContext(ctx, q, &items, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func pagination(page, pageSize int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}
