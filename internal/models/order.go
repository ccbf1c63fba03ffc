package models

import "time"

type Order struct {
	ID              int64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	TotalAmount     int64
	Status          string
	DeliveryMethod  string
	PaymentMethod   string
	CreatedAt       time.Time
	Items           []OrderItem
}

type OrderItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       int64
}
