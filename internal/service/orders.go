package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

const (
	DefaultDeliveryMethod = "pickup"
	DefaultPaymentMethod  = "cash"
)

type OrderService struct {
	db  database.Pool
	log zerolog.Logger
}

func NewOrderService(db database.Pool, log zerolog.Logger) *OrderService {
	return &OrderService{db: db, log: log}
}

// Place stores the order header and its line items atomically.
func (s *OrderService) Place(ctx context.Context, order models.Order) (int64, error) {
	order.CustomerName = strings.TrimSpace(order.CustomerName)
	order.CustomerPhone = strings.TrimSpace(order.CustomerPhone)
	if order.CustomerName == "" || order.CustomerPhone == "" {
		return 0, validationError("customer_name and customer_phone are required")
	}
	if order.TotalAmount < 0 {
		return 0, validationError("total_amount must not be negative")
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return 0, validationError("item quantity must be positive")
		}
	}
	if order.DeliveryMethod == "" {
		order.DeliveryMethod = DefaultDeliveryMethod
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = DefaultPaymentMethod
	}

	var orderID int64
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		orders := repository.NewOrderRepository(tx)

		id, err := orders.Create(ctx, order)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := orders.AddItem(ctx, id, item); err != nil {
				return err
			}
		}
		orderID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("order_id", orderID).Int("items", len(order.Items)).Msg("order placed")
	return orderID, nil
}

// Get loads the order with its line items.
func (s *OrderService) Get(ctx context.Context, id int64) (models.Order, error) {
	orders := repository.NewOrderRepository(s.db)

	order, err := orders.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	order.Items, err = orders.ListItems(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}
