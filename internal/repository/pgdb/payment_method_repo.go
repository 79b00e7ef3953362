package pgdb

import (
	"context"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PaymentMethodRepo reads the payment_methods lookup table.
type PaymentMethodRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodRepo(pool *pgxpool.Pool) *PaymentMethodRepo {
	return &PaymentMethodRepo{pool: pool}
}

func (r *PaymentMethodRepo) List(ctx context.Context) ([]domain.PaymentMethodInfo, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT code, description FROM payment_methods ORDER BY code`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.PaymentMethodInfo, 0, 2)
	for rows.Next() {
		var (
			code string
			info domain.PaymentMethodInfo
		)
		if err := rows.Scan(&code, &info.Description); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		info.Code = domain.PaymentMethod(code)
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
