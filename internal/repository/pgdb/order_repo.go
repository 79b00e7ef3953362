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

const orderColumns = `
	o.id, o.customer_id, cu.name || ' ' || cu.surname, o.created_at,
	o.total, o.discount, o.taxes, o.payment_method, o.status, o.notes,
	COALESCE(o.checkout_key, '')`

const orderItemColumns = `
	i.id, i.order_id, i.product_id, p.name, c.name, i.quantity, i.unit_price, i.subtotal`

// OrderRepo stores order headers and their items.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)
	m := r.conv.ToModel(order)

	query := `
		WITH o AS (
			INSERT INTO orders (customer_id, created_at, total, discount, taxes, payment_method, status, notes, checkout_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
			RETURNING *
		)
		SELECT ` + orderColumns + `
		FROM o
		JOIN customers cu ON cu.id = o.customer_id`

	created, err := scanOrder(q.QueryRow(ctx, query,
		m.CustomerID, m.CreatedAt, m.Total, m.Discount, m.Taxes, m.PaymentMethod, m.Status, m.Notes, m.CheckoutKey,
	))
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderExists)
		}
		if postgresForeignKey(err) {
			if constraint := constraintOf(err); constraint == "orders_payment_method_fkey" {
				return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidPaymentMethod)
			}
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCustomerNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(created), nil
}

// CreateLines inserts the items of orderID and returns them with product and category names.
func (r *OrderRepo) CreateLines(ctx context.Context, orderID int64, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	query := `
		WITH i AS (
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + orderItemColumns + `
		FROM i
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id`

	result := make([]domain.OrderLine, 0, len(lines))
	for i := range lines {
		m := r.conv.ItemToModel(&lines[i])
		created, err := scanOrderItem(q.QueryRow(ctx, query, orderID, m.ProductID, m.Quantity, m.UnitPrice, m.Subtotal))
		if err != nil {
			if postgresForeignKey(err) {
				return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
			}
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *r.conv.ItemToEntity(created))
	}

	return result, nil
}

// GetByID returns the order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN customers cu ON cu.id = o.customer_id
		WHERE o.id = $1`

	m, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := r.conv.ToEntity(m)
	if order.Lines, err = r.items(ctx, id); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByCheckoutKey returns the order header created for a checkout sale.
func (r *OrderRepo) GetByCheckoutKey(ctx context.Context, key string) (*domain.Order, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN customers cu ON cu.id = o.customer_id
		WHERE o.checkout_key = $1`

	m, err := scanOrder(q.QueryRow(ctx, query, key))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(m), nil
}

// List returns order headers, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN customers cu ON cu.id = o.customer_id
		ORDER BY o.created_at DESC, o.id DESC`

	return r.list(ctx, query)
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN customers cu ON cu.id = o.customer_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC, o.id DESC`

	return r.list(ctx, query, customerID)
}

func (r *OrderRepo) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}
	return n, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	q := tr.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		if postgresCheck(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrInvalidStatus)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}
	return nil
}

func (r *OrderRepo) CompletePending(ctx context.Context, id int64) (bool, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1 AND status = $3`,
		id, string(domain.OrderCompleted), string(domain.OrderPending))
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	var stats domain.OrderStats
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0)
		FROM orders`).Scan(&stats.CompletedCount, &stats.PendingCount, &stats.CompletedAmount)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if stats.CompletedCount > 0 {
		stats.AverageTicket = stats.CompletedAmount.Div(decimal.NewFromInt(stats.CompletedCount)).Round(2)
	}
	return &stats, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT `+orderItemColumns+`
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE i.order_id = $1
		ORDER BY i.id`, orderID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.OrderLine, 0)
	for rows.Next() {
		m, err := scanOrderItem(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *r.conv.ItemToEntity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		m, err := scanOrder(rows)
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

func scanOrder(row pgx.Row) (*converter.OrderModel, error) {
	var m converter.OrderModel
	err := row.Scan(
		&m.ID, &m.CustomerID, &m.CustomerName, &m.CreatedAt,
		&m.Total, &m.Discount, &m.Taxes, &m.PaymentMethod, &m.Status, &m.Notes,
		&m.CheckoutKey,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanOrderItem(row pgx.Row) (*converter.OrderItemModel, error) {
	var m converter.OrderItemModel
	err := row.Scan(
		&m.ID, &m.OrderID, &m.ProductID, &m.ProductName, &m.CategoryName,
		&m.Quantity, &m.UnitPrice, &m.Subtotal,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
