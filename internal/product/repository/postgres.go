package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-pos-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ext(ctx context.Context) sqlx.ExtContext {
	return postgres.Executor(ctx, r.DB)
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, barcode, name, description, brand, provider_id,
            price_purchase, price_sale, stok, num_sales, user_created,
            created_at, updated_at
        )
        VALUES (
            :id, :barcode, :name, :description, :brand, :provider_id,
            :price_purchase, :price_sale, :stok, :num_sales, :user_created,
            :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, p)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("%w: barcode %q already exists", model.ErrConflict, p.Barcode)
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = ?`, id)
}

func (r *PGRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE barcode = ?`, barcode)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	q := r.ext(ctx)
	var p model.Product
	err := sqlx.GetContext(ctx, q, &p, q.Rebind(query), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %v", model.ErrNotFound, arg)
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs keeps the order of ids and skips ids that no longer exist.
func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	q := r.ext(ctx)
	var rows []model.Product
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Kword != "" {
		conditions = append(conditions, "(LOWER(p.name) LIKE :kword OR p.barcode LIKE :kword)")
		args["kword"] = "%" + strings.ToLower(f.Kword) + "%"
	}
	if f.Provider != "" {
		conditions = append(conditions, "LOWER(pr.name) LIKE :provider")
		args["provider"] = "%" + strings.ToLower(f.Provider) + "%"
	}
	if f.Brand != "" {
		conditions = append(conditions, "LOWER(p.brand) LIKE :brand")
		args["brand"] = "%" + strings.ToLower(f.Brand) + "%"
	}
	if f.DateStart != nil {
		conditions = append(conditions, "p.created_at >= :date_start")
		args["date_start"] = f.DateStart.UTC()
	}
	if f.DateEnd != nil {
		conditions = append(conditions, "p.created_at < :date_end")
		args["date_end"] = f.DateEnd.UTC().AddDate(0, 0, 1)
	}

	from := " FROM products p LEFT JOIN providers pr ON pr.id = p.provider_id"
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := r.ext(ctx)

	countQuery, countArgs, err := q.BindNamed("SELECT count(*)"+from+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// Whitelisted to keep user input out of ORDER BY
	orderBy := "p.created_at DESC"
	switch f.Order {
	case "name":
		orderBy = "p.name ASC"
	case "stok":
		orderBy = "p.stok ASC"
	case "num_sales":
		orderBy = "p.num_sales DESC"
	case "date":
		orderBy = "p.created_at ASC"
	}

	query := "SELECT p.*" + from + whereClause + " ORDER BY " + orderBy + ", p.id"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := q.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.SelectContext(ctx, q, &products, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

// Update leaves stok and num_sales alone; those move only through the
// inventory ledger.
func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET barcode = :barcode,
            name = :name,
            description = :description,
            brand = :brand,
            provider_id = :provider_id,
            price_purchase = :price_purchase,
            price_sale = :price_sale,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, p)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: barcode %q already exists", model.ErrConflict, p.Barcode)
		}
		return err
	}
	return requireAffected(res, p.ID)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	q := r.ext(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: product %s has sales", model.ErrConflict, id)
		}
		return err
	}
	return requireAffected(res, id)
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE barcode = ?`
	args := []interface{}{barcode}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}

	q := r.ext(ctx)
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(query), args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) HasSales(ctx context.Context, id string) (bool, error) {
	var count int
	q := r.ext(ctx)
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(`SELECT count(*) FROM sale_details WHERE product_id = ?`), id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s", model.ErrNotFound, id)
	}
	return nil
}
