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
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, order_id, amount, payment_method, paid_at, reference, status`

type PaymentRepo struct {
	pool *pgxpool.Pool
	conv converter.PaymentConverter
}

func NewPaymentRepo(pool *pgxpool.Pool, conv converter.PaymentConverter) *PaymentRepo {
	return &PaymentRepo{pool: pool, conv: conv}
}

// Create returns e.ErrOrderNotPending when the order already has a completed
// payment with the same reference.
func (r *PaymentRepo) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)
	m := r.conv.ToModel(payment)

	query := `
		INSERT INTO payments (order_id, amount, payment_method, paid_at, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + paymentColumns

	created, err := scanPayment(q.QueryRow(ctx, query,
		m.OrderID, m.Amount, m.PaymentMethod, m.PaidAt, m.Reference, m.Status,
	))
	if err != nil {
		switch {
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotPending)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(created), nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	m, err := scanPayment(q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrPaymentNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(m), nil
}

func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.Payment, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY paid_at, id`, orderID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Payment, 0)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *r.conv.ToEntity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// UpdateStatus changes the status and, when reference is not empty, the reference.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, reference string) (*domain.Payment, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	query := `
		UPDATE payments
		SET status = $2, reference = COALESCE(NULLIF($3, ''), reference)
		WHERE id = $1
		RETURNING ` + paymentColumns

	m, err := scanPayment(q.QueryRow(ctx, query, id, string(status), reference))
	if err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrPaymentNotFound)
		case postgresDuplicate(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotPending)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(m), nil
}

func (r *PaymentRepo) TotalPaid(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE order_id = $1 AND status = $2`, orderID, string(domain.PaymentCompleted)).Scan(&total)
	if err != nil {
		return decimal.Zero, e.Wrap(whereami.WhereAmI(), err)
	}
	return total, nil
}

func scanPayment(row pgx.Row) (*converter.PaymentModel, error) {
	var m converter.PaymentModel
	if err := row.Scan(&m.ID, &m.OrderID, &m.Amount, &m.PaymentMethod, &m.PaidAt, &m.Reference, &m.Status); err != nil {
		return nil, err
	}
	return &m, nil
}
