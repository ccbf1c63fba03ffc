package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type OrderRepository struct {
	db database.DBTX
}

func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o models.Order) (int64, error) {
	const query = `
		INSERT INTO orders (
			customer_name, customer_phone, customer_email, customer_address,
			total_amount, delivery_method, payment_method, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerEmail,
		o.CustomerAddress,
		o.TotalAmount,
		o.DeliveryMethod,
		o.PaymentMethod,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *OrderRepository) AddItem(ctx context.Context, orderID int64, item models.OrderItem) error {
	const query = `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, orderID, item.ProductID, item.ProductName, item.Quantity, item.Price)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (models.Order, error) {
	const query = `
		SELECT id, customer_name, customer_phone, customer_email, customer_address,
		       total_amount, status, delivery_method, payment_method, created_at
		FROM orders
		WHERE id = $1
	`

	var o models.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerEmail,
		&o.CustomerAddress,
		&o.TotalAmount,
		&o.Status,
		&o.DeliveryMethod,
		&o.PaymentMethod,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	const query = `
		SELECT product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	const query = `
		SELECT id, customer_name, customer_phone, total_amount, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
