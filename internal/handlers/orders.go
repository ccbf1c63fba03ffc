package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

const recentOrdersLimit = 50

type orderItemPayload struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

type orderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerAddress string             `json:"customer_address"`
	TotalAmount     int64              `json:"total_amount"`
	DeliveryMethod  string             `json:"delivery_method"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []orderItemPayload `json:"items"`
}

type orderResponse struct {
	ID              int64              `json:"id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	CustomerAddress string             `json:"customer_address,omitempty"`
	TotalAmount     int64              `json:"total_amount"`
	Status          string             `json:"status"`
	DeliveryMethod  string             `json:"delivery_method,omitempty"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Items           []orderItemPayload `json:"items,omitempty"`
}

func newOrderResponse(o models.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		DeliveryMethod:  o.DeliveryMethod,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemPayload(item))
	}
	return resp
}

func (h HandlerSet) Orders(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.getOrders(c)
	case http.MethodPost:
		h.createOrder(c)
	default:
		errorJSON(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h HandlerSet) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     req.TotalAmount,
		DeliveryMethod:  req.DeliveryMethod,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem(item))
	}

	id, err := h.orders.Place(c.Request.Context(), order)
	if err != nil {
		serviceError(c, err, "place order failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": id, "message": "Order created successfully"})
}

func (h HandlerSet) getOrders(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := queryID(c, "id")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid order ID")
		return
	}
	if id != 0 {
		order, err := h.orders.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				errorJSON(c, http.StatusNotFound, "Order not found")
				return
			}
			internalError(c, err, "get order failed")
			return
		}
		c.JSON(http.StatusOK, newOrderResponse(order))
		return
	}

	orders, err := h.orderRepo.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		internalError(c, err, "list orders failed")
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}
