package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Provider) error {
	query := `
        INSERT INTO providers (id, name, email, phone, website, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :website, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Provider, error) {
	var p model.Provider
	q := postgres.Executor(ctx, r.DB)
	err := sqlx.GetContext(ctx, q, &p, q.Rebind(`SELECT * FROM providers WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: provider %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProviderFilters) ([]model.Provider, int, error) {
	providers := []model.Provider{}
	var count int

	args := map[string]interface{}{}
	whereClause := ""
	if f.Name != "" {
		whereClause = " WHERE LOWER(name) LIKE :name"
		args["name"] = "%" + strings.ToLower(f.Name) + "%"
	}

	q := postgres.Executor(ctx, r.DB)

	countQuery, countArgs, err := q.BindNamed("SELECT count(*) FROM providers"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, q, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM providers" + whereClause + " ORDER BY name ASC, id"
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
	if err := sqlx.SelectContext(ctx, q, &providers, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}

	return providers, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Provider) error {
	query := `
        UPDATE providers
        SET name = :name,
            email = :email,
            phone = :phone,
            website = :website,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, p)
	if err != nil {
		return err
	}
	return requireAffected(res, p.ID)
}

// Delete detaches the provider's products through ON DELETE SET NULL.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	q := postgres.Executor(ctx, r.DB)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM providers WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: provider %s", model.ErrNotFound, id)
	}
	return nil
}
