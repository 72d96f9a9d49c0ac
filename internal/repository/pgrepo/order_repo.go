package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

const orderColumns = `id, created_at, updated_at, user_id, kind, product_name, operator,
	cost, status, delivery_info, payment_method, payment_proof, action_by`

type OrderRepository struct {
	conn DBTX
}

func NewOrderRepository(conn DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// Create сохраняет заказ, собранный доменной фабрикой. Повтор id вернет domain.ErrDuplicateKey.
func (o *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		INSERT INTO orders (id, created_at, updated_at, user_id, kind, product_name, operator,
			cost, status, delivery_info, payment_method, payment_proof, action_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+orderColumns,
		order.ID, order.CreatedAt, order.UpdatedAt, order.UserID, order.Kind, order.ProductName,
		order.Operator, order.Cost, order.Status, order.DeliveryInfo, order.PaymentMethod,
		order.PaymentProof, order.ActionBy,
	)
	created, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order `%s`", order.ID)
	}
	return created, nil
}

func (o *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order `%s`", id)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера, отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID %d", userID)
	}
	return collectOrders(rows)
}

func (o *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, convertErr(err, "listing orders")
	}
	return collectOrders(rows)
}

// UpdateStatus переводит заказ из статуса From в To по принципу compare-and-swap:
// условие WHERE по текущему статусу гарантирует, что два админа не закроют один заказ
// дважды. Если заказ существует, но статус уже не From - domain.ErrInvalidOrderState.
func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders SET status = $2, action_by = $3, updated_at = now()
		WHERE id = $1 AND status = $4
		RETURNING `+orderColumns,
		args.ID, args.To, args.ActionBy, args.From,
	)
	order, err := scanOrder(row)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "updating status of order `%s`", args.ID)
	}

	// CAS не сработал: различаем отсутствие заказа и неподходящий статус.
	if _, findErr := o.FindByID(ctx, args.ID); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInvalidOrderState
}

// DeleteByUserID удаляет все заказы юзера. Используется админской операцией purge.
func (o *OrderRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := o.conn.Exec(ctx, `DELETE FROM orders WHERE user_id = $1`, userID); err != nil {
		return convertErr(err, "deleting orders of user %d", userID)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID, &order.Kind,
		&order.ProductName, &order.Operator, &order.Cost, &order.Status,
		&order.DeliveryInfo, &order.PaymentMethod, &order.PaymentProof, &order.ActionBy,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, convertErr(err, "scanning order row")
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "iterating order rows")
	}
	return orders, nil
}
