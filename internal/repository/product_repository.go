package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type ProductRepository struct {
	db database.DBTX
}

func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns the catalog newest first, optionally restricted to one category.
func (r *ProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	const query = `
		SELECT id, name, category, price, description, image_url, badge, stock, created_at
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, category)
}

// ListForExport orders the catalog the way the printed price list reads.
func (r *ProductRepository) ListForExport(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, name, category, price, description, image_url, badge, stock, created_at
		FROM products
		ORDER BY category, name
	`
	return r.queryMany(ctx, query)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	const query = `
		SELECT id, name, category, price, description, image_url, badge, stock, created_at
		FROM products
		WHERE id = $1
	`

	var p models.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.Description,
		&p.ImageURL,
		&p.Badge,
		&p.Stock,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	const query = `
		INSERT INTO products (name, category, price, description, image_url, badge, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.ImageURL,
		p.Badge,
		p.Stock,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	const query = `
		UPDATE products
		SET name = $2, category = $3, price = $4, description = $5,
		    image_url = $6, badge = $7, stock = $8, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.ImageURL,
		p.Badge,
		p.Stock,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Price,
			&p.Description,
			&p.ImageURL,
			&p.Badge,
			&p.Stock,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
