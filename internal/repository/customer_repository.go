package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type CustomerRepository struct {
	db database.DBTX
}

func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CreateProfile provisions the empty CRM profile of a freshly registered user.
func (r *CustomerRepository) CreateProfile(ctx context.Context, userID int64) error {
	const query = `INSERT INTO customers (user_id, status) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, string(models.CustomerStatusActive))
	return err
}

func (r *CustomerRepository) List(ctx context.Context, limit int) ([]models.Customer, error) {
	const query = `
		SELECT c.id, c.user_id, u.email, u.full_name, u.phone, c.total_orders, c.total_spent,
		       c.status, c.last_order_date
		FROM customers c
		JOIN users u ON c.user_id = u.id
		ORDER BY c.total_spent DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Email,
			&c.FullName,
			&c.Phone,
			&c.TotalOrders,
			&c.TotalSpent,
			&c.Status,
			&c.LastOrderDate,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	const query = `
		SELECT c.id, c.user_id, u.email, u.full_name, u.phone, c.company_name, c.address,
		       c.notes, c.discount_percent, c.total_orders, c.total_spent,
		       c.last_order_date, c.status, c.created_at
		FROM customers c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
	`

	var c models.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Email,
		&c.FullName,
		&c.Phone,
		&c.CompanyName,
		&c.Address,
		&c.Notes,
		&c.DiscountPercent,
		&c.TotalOrders,
		&c.TotalSpent,
		&c.LastOrderDate,
		&c.Status,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, update models.CustomerUpdate) error {
	const query = `
		UPDATE customers
		SET company_name = $2, address = $3, notes = $4, discount_percent = $5,
		    status = $6, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.db.Exec(ctx, query,
		id,
		update.CompanyName,
		update.Address,
		update.Notes,
		update.DiscountPercent,
		update.Status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// RefreshStats recomputes order counters of every profile from the orders
// placed with the account email. Returns the number of profiles touched.
func (r *CustomerRepository) RefreshStats(ctx context.Context) (int64, error) {
	const query = `
		UPDATE customers c
		SET total_orders = s.total_orders,
		    total_spent = s.total_spent,
		    last_order_date = s.last_order_date,
		    updated_at = NOW()
		FROM (
			SELECT u.id AS user_id,
			       COUNT(o.id) AS total_orders,
			       COALESCE(SUM(o.total_amount), 0)::BIGINT AS total_spent,
			       MAX(o.created_at) AS last_order_date
			FROM users u
			LEFT JOIN orders o ON LOWER(o.customer_email) = u.email
			GROUP BY u.id
		) s
		WHERE c.user_id = s.user_id
	`

	cmd, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
