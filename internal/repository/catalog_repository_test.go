package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balcvetov/api/internal/models"
)

var productColumns = []string{"id", "name", "category", "price", "description", "image_url", "badge", "stock", "created_at"}

func TestProductRepository_ListByCategory(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	badge := "Хит"
	mock.ExpectQuery(`FROM products\s+WHERE \(\$1 = '' OR category = \$1\)`).
		WithArgs("peonies").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(int64(1), "Sarah Bernhardt", "peonies", int64(900), "", "/placeholder.svg", &badge, 12, created))

	products, err := repo.List(context.Background(), "peonies")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sarah Bernhardt", products[0].Name)
	require.NotNil(t, products[0].Badge)
	assert.Equal(t, "Хит", *products[0].Badge)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`FROM products\s+WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec(`UPDATE products`).
		WithArgs(int64(5), "Clematis", "clematis", int64(450), "", "/placeholder.svg", (*string)(nil), 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), models.Product{
		ID: 5, Name: "Clematis", Category: "clematis", Price: 450, ImageURL: "/placeholder.svg", Stock: 3,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCustomerRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec(`UPDATE customers`).
		WithArgs(int64(77), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 5, "vip").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), 77, models.CustomerUpdate{DiscountPercent: 5, Status: "vip"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerRepository_RefreshStats(t *testing.T) {
	mock := newMock(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec(`UPDATE customers c`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 12))

	n, err := repo.RefreshStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestBlogRepository_GetPublished_Draft(t *testing.T) {
	mock := newMock(t)
	repo := NewBlogRepository(mock)

	mock.ExpectQuery(`FROM blog_posts\s+WHERE id = \$1 AND published = true`).
		WithArgs(int64(3)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPublished(context.Background(), 3)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReportRepository_Sales(t *testing.T) {
	mock := newMock(t)
	repo := NewReportRepository(mock)

	mock.ExpectQuery(`MAKE_INTERVAL\(days => \$1::INT\)`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"day", "count", "sum"}).
			AddRow("2026-10-17", int64(2), int64(3100)).
			AddRow("2026-10-18", int64(1), int64(800)))

	sales, err := repo.Sales(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, models.SalesDay{Date: "2026-10-17", Orders: 2, Revenue: 3100}, sales[0])
}
