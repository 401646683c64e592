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

func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (
            id, date_sale, invoice_type, payment_type, close_sale, anulate,
            user_id, created_at, updated_at
        )
        VALUES (
            :id, :date_sale, :invoice_type, :payment_type, :close_sale, :anulate,
            :user_id, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, s)
	return err
}

func (r *PGRepository) CreateDetails(ctx context.Context, details []model.SaleDetail) error {
	if len(details) == 0 {
		return nil
	}
	query := `
        INSERT INTO sale_details (id, sale_id, product_id, count, price_purchase, price_sale, created_at)
        VALUES (:id, :sale_id, :product_id, :count, :price_purchase, :price_sale, :created_at)
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, details)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var s model.Sale
	q := postgres.Executor(ctx, r.DB)
	err := sqlx.GetContext(ctx, q, &s, q.Rebind(`SELECT * FROM sales WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindDetails(ctx context.Context, saleIDs []string) ([]model.SaleDetail, error) {
	details := []model.SaleDetail{}
	if len(saleIDs) == 0 {
		return details, nil
	}

	query, args, err := sqlx.In(`
        SELECT d.*,
               COALESCE(p.name, '') AS product_name,
               d.price_sale * d.count AS subtotal
        FROM sale_details d
        LEFT JOIN products p ON p.id = d.product_id
        WHERE d.sale_id IN (?)
        ORDER BY d.created_at, d.id
    `, saleIDs)
	if err != nil {
		return nil, err
	}

	q := postgres.Executor(ctx, r.DB)
	if err := sqlx.SelectContext(ctx, q, &details, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *PGRepository) ListUnclosed(ctx context.Context, includeAnnulled bool) ([]model.Sale, error) {
	sales := []model.Sale{}
	query := `SELECT * FROM sales WHERE close_sale = FALSE`
	if !includeAnnulled {
		query += ` AND anulate = FALSE`
	}
	query += ` ORDER BY date_sale, id`

	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &sales, query); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PGRepository) MarkAnnulled(ctx context.Context, id string) (bool, error) {
	q := postgres.Executor(ctx, r.DB)
	res, err := q.ExecContext(ctx, q.Rebind(`
        UPDATE sales SET anulate = TRUE, updated_at = ?
        WHERE id = ? AND anulate = FALSE
    `), time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) CloseSales(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
        UPDATE sales SET close_sale = TRUE, updated_at = ?
        WHERE close_sale = FALSE AND id IN (?)
    `, time.Now().UTC(), ids)
	if err != nil {
		return 0, err
	}

	q := postgres.Executor(ctx, r.DB)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PGRepository) MonthlyForProduct(ctx context.Context, productID string, from, to time.Time) (*model.MonthlySales, error) {
	m := model.MonthlySales{ProductID: productID}
	query := `
        SELECT COALESCE(SUM(d.count), 0) AS count,
               COALESCE(SUM(d.count * d.price_sale), 0) AS total
        FROM sale_details d
        JOIN sales s ON s.id = d.sale_id
        WHERE d.product_id = ?
          AND s.anulate = FALSE
          AND s.date_sale >= ?
          AND s.date_sale < ?
    `
	q := postgres.Executor(ctx, r.DB)
	if err := sqlx.GetContext(ctx, q, &m, q.Rebind(query), productID, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	return &m, nil
}
