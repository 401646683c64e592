package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PGRepository) Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error) {
	query := `
        INSERT INTO car_shop (id, barcode, product_id, count, created_at, updated_at)
        VALUES (:id, :barcode, :product_id, :count, :created_at, :updated_at)
        ON CONFLICT (barcode) DO UPDATE SET
            count = car_shop.count + EXCLUDED.count,
            updated_at = EXCLUDED.updated_at
    `
	q := postgres.Executor(ctx, r.DB)
	if _, err := sqlx.NamedExecContext(ctx, q, query, item); err != nil {
		return nil, err
	}

	var stored model.CartItem
	if err := sqlx.GetContext(ctx, q, &stored, q.Rebind(`SELECT * FROM car_shop WHERE barcode = ?`), item.Barcode); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.CartItem, error) {
	var item model.CartItem
	q := postgres.Executor(ctx, r.DB)
	err := sqlx.GetContext(ctx, q, &item, q.Rebind(`SELECT * FROM car_shop WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cart item %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

// Decrement never removes the item; the count stops at 1.
func (r *PGRepository) Decrement(ctx context.Context, id string) (*model.CartItem, error) {
	q := postgres.Executor(ctx, r.DB)
	res, err := q.ExecContext(ctx, q.Rebind(`
        UPDATE car_shop
        SET count = CASE WHEN count > 1 THEN count - 1 ELSE 1 END,
            updated_at = ?
        WHERE id = ?
    `), time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	q := postgres.Executor(ctx, r.DB)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM car_shop WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

func (r *PGRepository) DeleteAll(ctx context.Context) (int, error) {
	res, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, `DELETE FROM car_shop`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PGRepository) ListLines(ctx context.Context) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	query := `
        SELECT c.id, c.barcode, c.product_id, c.count, c.created_at, c.updated_at,
               p.name AS product_name, p.price_sale, p.price_purchase, p.stok
        FROM car_shop c
        JOIN products p ON p.id = c.product_id
        ORDER BY c.created_at, c.id
    `
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &lines, query); err != nil {
		return nil, err
	}
	return lines, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: cart item %s", model.ErrNotFound, id)
	}
	return nil
}
