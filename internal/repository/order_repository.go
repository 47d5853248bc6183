package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// OrderFilter narrows an order listing. Zero values disable a clause.
type OrderFilter struct {
	MemberID int64
	StoreID  int64
	From     *time.Time
	To       *time.Time
}

// OrderRepository encapsulates order persistence and sales aggregation.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	UpdateQuantity(ctx context.Context, id int64, quantity int, total int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.OrderDetail, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.OrderDetail, error)
	SalesByMenu(ctx context.Context, storeID int64, from, to time.Time) ([]domain.MenuSales, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderDetailSelect = `
        SELECT o.id, o.member_id, o.store_id, o.menu_id, o.quantity, o.total_price, o.created_at,
               m.name, m.phone, m.address, s.name, s.address, s.member_id, mn.title
        FROM orders o
        JOIN members m ON m.id = o.member_id
        JOIN stores s ON s.id = o.store_id
        JOIN menus mn ON mn.id = o.menu_id`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (member_id, store_id, menu_id, quantity, total_price, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		order.MemberID,
		order.StoreID,
		order.MenuID,
		order.Quantity,
		order.TotalPrice,
		order.CreatedAt,
	).Scan(&order.ID)
}

func (r *orderRepository) UpdateQuantity(ctx context.Context, id int64, quantity int, total int64) error {
	const query = `UPDATE orders SET quantity=$1, total_price=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, quantity, total, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	const query = orderDetailSelect + ` WHERE o.id=$1`
	return scanOrderDetail(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.OrderDetail, error) {
	query := orderDetailSelect + ` WHERE 1=1`
	args := []any{}

	if filter.MemberID != 0 {
		args = append(args, filter.MemberID)
		query += fmt.Sprintf(" AND o.member_id=$%d", len(args))
	}
	if filter.StoreID != 0 {
		args = append(args, filter.StoreID)
		query += fmt.Sprintf(" AND o.store_id=$%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND o.created_at < $%d", len(args))
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.OrderDetail{}
	for rows.Next() {
		order, err := scanOrderDetail(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// SalesByMenu groups a store's orders in [from, to) by menu, largest amount first.
func (r *orderRepository) SalesByMenu(ctx context.Context, storeID int64, from, to time.Time) ([]domain.MenuSales, error) {
	const query = `
        SELECT mn.id, mn.title, COALESCE(SUM(o.quantity), 0), COALESCE(SUM(o.total_price), 0)
        FROM orders o
        JOIN menus mn ON mn.id = o.menu_id
        WHERE o.store_id=$1 AND o.created_at >= $2 AND o.created_at < $3
        GROUP BY mn.id, mn.title
        ORDER BY 4 DESC, mn.id`

	rows, err := r.pool.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by menu: %w", err)
	}
	defer rows.Close()

	sales := []domain.MenuSales{}
	for rows.Next() {
		var line domain.MenuSales
		if err := rows.Scan(&line.MenuID, &line.MenuName, &line.Count, &line.Amount); err != nil {
			return nil, fmt.Errorf("sales by menu: %w", err)
		}
		sales = append(sales, line)
	}
	return sales, rows.Err()
}

func scanOrderDetail(row pgx.Row) (*domain.OrderDetail, error) {
	var order domain.OrderDetail
	if err := row.Scan(
		&order.ID,
		&order.MemberID,
		&order.StoreID,
		&order.MenuID,
		&order.Quantity,
		&order.TotalPrice,
		&order.CreatedAt,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.StoreName,
		&order.StoreAddress,
		&order.StoreOwnerID,
		&order.MenuTitle,
	); err != nil {
		return nil, err
	}
	order.PaymentMethod = domain.PaymentMethodPrepaid
	return &order, nil
}
