package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

const (
	customersListLimit = 100
	topProductsLimit   = 10
	defaultSalesDays   = 30
)

type dashboardResponse struct {
	TotalOrders      int64 `json:"total_orders"`
	TotalRevenue     int64 `json:"total_revenue"`
	AvgOrderValue    int64 `json:"avg_order_value"`
	TotalProducts    int64 `json:"total_products"`
	TotalCustomers   int64 `json:"total_customers"`
	OrdersLastMonth  int64 `json:"orders_last_month"`
	RevenueLastMonth int64 `json:"revenue_last_month"`
}

type customerResponse struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone"`
	CompanyName     *string    `json:"company_name,omitempty"`
	Address         *string    `json:"address,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	DiscountPercent *int       `json:"discount_percent,omitempty"`
	TotalOrders     int        `json:"total_orders"`
	TotalSpent      int64      `json:"total_spent"`
	LastOrderDate   *time.Time `json:"last_order_date"`
	Status          string     `json:"status"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

type customerUpdateRequest struct {
	CompanyName     *string `json:"company_name"`
	Address         *string `json:"address"`
	Notes           *string `json:"notes"`
	DiscountPercent int     `json:"discount_percent"`
	Status          string  `json:"status"`
}

type salesDayResponse struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type productStatResponse struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	TimesOrdered  int64  `json:"times_ordered"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalRevenue  int64  `json:"total_revenue"`
}

// Admin dispatches on the path query parameter, dashboard by default.
func (h HandlerSet) Admin(c *gin.Context) {
	method := c.Request.Method
	switch path := c.DefaultQuery("path", "dashboard"); {
	case path == "dashboard":
		h.adminDashboard(c)
	case path == "customers" && method == http.MethodGet:
		h.adminCustomers(c)
	case path == "customers" && method == http.MethodPut:
		h.adminUpdateCustomer(c)
	case path == "sales":
		h.adminSales(c)
	case path == "products/stats":
		h.adminProductStats(c)
	case path == "export":
		h.adminExport(c)
	default:
		errorJSON(c, http.StatusBadRequest, "Invalid path")
	}
}

func (h HandlerSet) adminDashboard(c *gin.Context) {
	stats, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		internalError(c, err, "dashboard query failed")
		return
	}
	c.JSON(http.StatusOK, dashboardResponse(stats))
}

func (h HandlerSet) adminCustomers(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := queryID(c, "id")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	if id != 0 {
		customer, err := h.customers.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				errorJSON(c, http.StatusNotFound, "Customer not found")
				return
			}
			internalError(c, err, "get customer failed")
			return
		}
		resp := newCustomerResponse(customer)
		resp.CompanyName = customer.CompanyName
		resp.Address = customer.Address
		resp.Notes = customer.Notes
		resp.DiscountPercent = &customer.DiscountPercent
		resp.CreatedAt = &customer.CreatedAt
		c.JSON(http.StatusOK, resp)
		return
	}

	customers, err := h.customers.List(ctx, customersListLimit)
	if err != nil {
		internalError(c, err, "list customers failed")
		return
	}
	resp := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		resp = append(resp, newCustomerResponse(customer))
	}
	c.JSON(http.StatusOK, resp)
}

func newCustomerResponse(customer models.Customer) customerResponse {
	return customerResponse{
		ID:            customer.ID,
		Email:         customer.Email,
		FullName:      customer.FullName,
		Phone:         customer.Phone,
		TotalOrders:   customer.TotalOrders,
		TotalSpent:    customer.TotalSpent,
		LastOrderDate: customer.LastOrderDate,
		Status:        customer.Status,
	}
}

func (h HandlerSet) adminUpdateCustomer(c *gin.Context) {
	id, err := queryID(c, "id")
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "Customer ID required")
		return
	}

	var req customerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		errorJSON(c, http.StatusBadRequest, "discount_percent must be between 0 and 100")
		return
	}
	if req.Status == "" {
		req.Status = string(models.CustomerStatusActive)
	}

	err = h.customers.Update(c.Request.Context(), id, models.CustomerUpdate{
		CompanyName:     req.CompanyName,
		Address:         req.Address,
		Notes:           req.Notes,
		DiscountPercent: req.DiscountPercent,
		Status:          req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			errorJSON(c, http.StatusNotFound, "Customer not found")
			return
		}
		internalError(c, err, "update customer failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})
}

func (h HandlerSet) adminSales(c *gin.Context) {
	days := defaultSalesDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errorJSON(c, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	sales, err := h.reports.Sales(c.Request.Context(), days)
	if err != nil {
		internalError(c, err, "sales query failed")
		return
	}
	resp := make([]salesDayResponse, 0, len(sales))
	for _, day := range sales {
		resp = append(resp, salesDayResponse(day))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) adminProductStats(c *gin.Context) {
	stats, err := h.reports.TopProducts(c.Request.Context(), topProductsLimit)
	if err != nil {
		internalError(c, err, "product stats query failed")
		return
	}
	resp := make([]productStatResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, productStatResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) adminExport(c *gin.Context) {
	if format := c.DefaultQuery("format", "csv"); format != "csv" {
		errorJSON(c, http.StatusBadRequest, "Unsupported format")
		return
	}

	body, err := h.pricelist.Render(c.Request.Context())
	if err != nil {
		internalError(c, err, "render pricelist failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="pricelist.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
