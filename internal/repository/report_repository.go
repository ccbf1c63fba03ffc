package repository

import (
	"context"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

// ReportRepository holds the read-only aggregations behind the admin dashboard.
type ReportRepository struct {
	db database.DBTX
}

func NewReportRepository(db database.DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0)::BIGINT FROM orders),
			(SELECT COALESCE(TRUNC(AVG(total_amount)), 0)::BIGINT FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users WHERE role = 'customer'),
			(SELECT COUNT(*) FROM orders WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'),
			(SELECT COALESCE(SUM(total_amount), 0)::BIGINT FROM orders
			 WHERE created_at >= CURRENT_DATE - INTERVAL '30 days')
	`

	var s models.DashboardStats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalOrders,
		&s.TotalRevenue,
		&s.AvgOrderValue,
		&s.TotalProducts,
		&s.TotalCustomers,
		&s.OrdersLastMonth,
		&s.RevenueLastMonth,
	)
	return s, err
}

func (r *ReportRepository) Sales(ctx context.Context, days int) ([]models.SalesDay, error) {
	const query = `
		SELECT TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day,
		       COUNT(*),
		       COALESCE(SUM(total_amount), 0)::BIGINT
		FROM orders
		WHERE created_at >= CURRENT_DATE - MAKE_INTERVAL(days => $1::INT)
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`

	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]models.SalesDay, 0)
	for rows.Next() {
		var d models.SalesDay
		if err := rows.Scan(&d.Date, &d.Orders, &d.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, d)
	}
	return sales, rows.Err()
}

func (r *ReportRepository) TopProducts(ctx context.Context, limit int) ([]models.ProductStat, error) {
	const query = `
		SELECT p.name,
		       p.category,
		       COUNT(oi.id),
		       COALESCE(SUM(oi.quantity), 0)::BIGINT,
		       COALESCE(SUM(oi.quantity * oi.price), 0)::BIGINT AS total_revenue
		FROM products p
		LEFT JOIN order_items oi ON p.id = oi.product_id
		GROUP BY p.id, p.name, p.category
		ORDER BY total_revenue DESC NULLS LAST
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.ProductStat, 0)
	for rows.Next() {
		var s models.ProductStat
		if err := rows.Scan(&s.Name, &s.Category, &s.TimesOrdered, &s.TotalQuantity, &s.TotalRevenue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
