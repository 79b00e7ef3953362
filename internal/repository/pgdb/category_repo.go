package pgdb

import (
	"context"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/pgdb/converter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, subcategory, description, active, created_at, updated_at`

// CategoryRepo stores the catalog taxonomy in PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)
	model := c.conv.ToModel(category)

	query := `
		INSERT INTO categories (name, subcategory, description, active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	row := q.QueryRow(ctx, query, model.Name, model.Subcategory, model.Description, model.Active)
	created, err := scanCategory(row)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(created), nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)
	model := c.conv.ToModel(category)

	query := `
		UPDATE categories
		SET name = $2, subcategory = $3, description = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	row := q.QueryRow(ctx, query, model.ID, model.Name, model.Subcategory, model.Description, model.Active)
	updated, err := scanCategory(row)
	if err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(updated), nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	row := q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	model, err := scanCategory(row)
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

func (c *CategoryRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE active ORDER BY name, subcategory`
	return c.list(ctx, query)
}

func (c *CategoryRepo) ListByName(ctx context.Context, name string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE active AND name = $1 ORDER BY subcategory`
	return c.list(ctx, query, name)
}

func (c *CategoryRepo) CountProducts(ctx context.Context, id int64) (int64, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}
	return n, nil
}

func (c *CategoryRepo) Deactivate(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, c.pool)

	tag, err := q.Exec(ctx, `UPDATE categories SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}
	return nil
}

func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, c.pool)

	tag, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}
	return nil
}

func (c *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		model, err := scanCategory(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func scanCategory(row pgx.Row) (*converter.CategoryModel, error) {
	var m converter.CategoryModel
	err := row.Scan(&m.ID, &m.Name, &m.Subcategory, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
