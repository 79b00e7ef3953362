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

const customerColumns = `id, name, surname, phone, email, address, national_id, registration_date, active`

type CustomerRepo struct {
	pool *pgxpool.Pool
	conv converter.CustomerConverter
}

func NewCustomerRepo(pool *pgxpool.Pool, conv converter.CustomerConverter) *CustomerRepo {
	return &CustomerRepo{pool: pool, conv: conv}
}

func (c *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)
	m := c.conv.ToModel(customer)

	query := `
		INSERT INTO customers (name, surname, phone, email, address, national_id, registration_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + customerColumns

	created, err := scanCustomer(q.QueryRow(ctx, query,
		m.Name, m.Surname, m.Phone, m.Email, m.Address, m.NationalID, m.RegistrationDate, m.Active,
	))
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateNationalID)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(created), nil
}

func (c *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)
	m := c.conv.ToModel(customer)

	query := `
		UPDATE customers
		SET name = $2, surname = $3, phone = $4, email = $5, address = $6, national_id = $7, active = $8
		WHERE id = $1
		RETURNING ` + customerColumns

	updated, err := scanCustomer(q.QueryRow(ctx, query,
		m.ID, m.Name, m.Surname, m.Phone, m.Email, m.Address, m.NationalID, m.Active,
	))
	if err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCustomerNotFound)
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateNationalID)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(updated), nil
}

func (c *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	m, err := scanCustomer(q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCustomerNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(m), nil
}

func (c *CustomerRepo) ListActive(ctx context.Context, limit int) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active ORDER BY surname, name`
	if limit > 0 {
		return c.list(ctx, query+` LIMIT $1`, limit)
	}
	return c.list(ctx, query)
}

// Search matches name, surname or "name surname" case-insensitively.
func (c *CustomerRepo) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	sql := `SELECT ` + customerColumns + `
		FROM customers
		WHERE active
		  AND (name ILIKE $1 OR surname ILIKE $1 OR (name || ' ' || surname) ILIKE $1)
		ORDER BY surname, name`

	return c.list(ctx, sql, "%"+escapeLike(query)+"%")
}

func (c *CustomerRepo) NationalIDTaken(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var taken bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customers WHERE active AND national_id = $1 AND id <> $2
		)`, nationalID, excludeID).Scan(&taken)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}
	return taken, nil
}

func (c *CustomerRepo) Deactivate(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, c.pool)

	tag, err := q.Exec(ctx, `UPDATE customers SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCustomerNotFound)
	}
	return nil
}

func (c *CustomerRepo) list(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Customer, 0)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ToEntity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func scanCustomer(row pgx.Row) (*converter.CustomerModel, error) {
	var m converter.CustomerModel
	err := row.Scan(&m.ID, &m.Name, &m.Surname, &m.Phone, &m.Email, &m.Address, &m.NationalID, &m.RegistrationDate, &m.Active)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
