package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/repository/pgdb/converter"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	p.id, p.name, p.description, p.price, p.category_id, c.name,
	p.subcategory, p.stock, p.image_key, p.created_at, p.updated_at`

// ProductRepo stores products in PostgreSQL. Reads join the category name.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)
	model := p.conv.ToModel(product)

	query := `
		WITH p AS (
			INSERT INTO products (name, description, price, category_id, subcategory, stock, image_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM p
		JOIN categories c ON c.id = p.category_id`

	row := q.QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.CategoryID,
		model.Subcategory, model.Stock, model.ImageKey,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapProductErr(err))
	}

	return p.conv.ToEntity(created), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)
	model := p.conv.ToModel(product)

	query := `
		WITH p AS (
			UPDATE products
			SET name = $2, description = $3, price = $4, category_id = $5,
				subcategory = $6, stock = $7, image_key = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM p
		JOIN categories c ON c.id = p.category_id`

	row := q.QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.Price, model.CategoryID,
		model.Subcategory, model.Stock, model.ImageKey,
	)
	updated, err := scanProduct(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapProductErr(err))
	}

	return p.conv.ToEntity(updated), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	model, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapProductErr(err))
	}

	return p.conv.ToEntity(model), nil
}

// GetByIDs returns the products that exist among ids, in no particular order.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)`

	return p.list(ctx, query, ids)
}

func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Subcategory != "" {
		args = append(args, filter.Subcategory)
		conds = append(conds, fmt.Sprintf("p.subcategory = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.name"

	return p.list(ctx, query, args...)
}

// Search matches name, description, category and subcategory case-insensitively
// and only returns products in stock.
func (p *ProductRepo) Search(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.stock > 0
		  AND (p.name ILIKE $1 OR p.description ILIKE $1 OR c.name ILIKE $1 OR p.subcategory ILIKE $1)
		ORDER BY p.name
		LIMIT $2`

	return p.list(ctx, sql, "%"+escapeLike(query)+"%", limit)
}

func (p *ProductRepo) SetImageKey(ctx context.Context, id int64, key string) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `UPDATE products SET image_key = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}
	return nil
}

// DecrementStock subtracts quantity only while enough stock is left, so two
// concurrent sales can never drive stock below zero.
func (p *ProductRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if !exists {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}
	return e.Wrap(whereami.WhereAmI(), e.ErrInsufficientStock)
}

func (p *ProductRepo) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var m converter.ProductModel
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID, &m.CategoryName,
		&m.Subcategory, &m.Stock, &m.ImageKey, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func mapProductErr(err error) error {
	switch {
	case noRows(err):
		return e.ErrProductNotFound
	case postgresForeignKey(err):
		return e.ErrCategoryNotFound
	case postgresCheck(err):
		return e.Wrap(err.Error(), e.ErrValidation)
	default:
		return err
	}
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
