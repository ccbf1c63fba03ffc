package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

const defaultImageURL = "/placeholder.svg"

type productRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	Badge       *string `json:"badge"`
	Stock       int     `json:"stock"`
}

type productResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Badge       *string   `json:"badge"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Badge:       p.Badge,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

// toModel applies defaults and returns a client message when the payload is invalid.
func (r productRequest) toModel() (models.Product, string) {
	p := models.Product{
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    defaultImageURL,
		Badge:       r.Badge,
		Stock:       r.Stock,
	}
	if r.ImageURL != nil && *r.ImageURL != "" {
		p.ImageURL = *r.ImageURL
	}
	if p.Name == "" || p.Category == "" {
		return models.Product{}, "Name and category are required"
	}
	if p.Price < 0 || p.Stock < 0 {
		return models.Product{}, "Price and stock must not be negative"
	}
	return p, ""
}

func (h HandlerSet) Products(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.getProducts(c)
	case http.MethodPost:
		h.createProduct(c)
	case http.MethodPut:
		h.updateProduct(c)
	default:
		errorJSON(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h HandlerSet) getProducts(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := queryID(c, "id")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if id != 0 {
		product, err := h.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				errorJSON(c, http.StatusNotFound, "Product not found")
				return
			}
			internalError(c, err, "get product failed")
			return
		}
		c.JSON(http.StatusOK, newProductResponse(product))
		return
	}

	products, err := h.products.List(ctx, c.Query("category"))
	if err != nil {
		internalError(c, err, "list products failed")
		return
	}
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	product, problem := req.toModel()
	if problem != "" {
		errorJSON(c, http.StatusBadRequest, problem)
		return
	}

	id, err := h.products.Create(c.Request.Context(), product)
	if err != nil {
		internalError(c, err, "create product failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Product created"})
}

func (h HandlerSet) updateProduct(c *gin.Context) {
	id, err := queryID(c, "id")
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "Product ID required")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	product, problem := req.toModel()
	if problem != "" {
		errorJSON(c, http.StatusBadRequest, problem)
		return
	}
	product.ID = id

	if err := h.products.Update(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			errorJSON(c, http.StatusNotFound, "Product not found")
			return
		}
		internalError(c, err, "update product failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}
