package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

var pricelistHeader = []string{"Название", "Категория", "Цена (₽)", "Наличие", "Описание"}

var categoryTitles = map[string]string{
	"peonies":     "Пионы",
	"clematis":    "Клематисы",
	"shrubs":      "Кустарники",
	"seeds":       "Семена",
	"fertilizers": "Удобрения",
	"other":       "Другое",
}

// CategoryTitle returns the Russian display name of a category code, or the
// code itself when it is not known.
func CategoryTitle(code string) string {
	if title, ok := categoryTitles[code]; ok {
		return title
	}
	return code
}

type PricelistService struct {
	products *repository.ProductRepository
}

func NewPricelistService(db database.DBTX) *PricelistService {
	return &PricelistService{products: repository.NewProductRepository(db)}
}

// Render produces the CSV price list of the whole catalog.
func (s *PricelistService) Render(ctx context.Context) ([]byte, error) {
	products, err := s.products.ListForExport(ctx)
	if err != nil {
		return nil, err
	}
	return RenderPricelist(products)
}

func RenderPricelist(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(pricelistHeader); err != nil {
		return nil, err
	}
	for _, p := range products {
		record := []string{
			p.Name,
			CategoryTitle(p.Category),
			strconv.FormatInt(p.Price, 10),
			strconv.Itoa(p.Stock),
			p.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
