package models

import "time"

type CustomerStatus string

const (
	CustomerStatusActive CustomerStatus = "active"
)

// Customer is the CRM profile provisioned 1:1 with every registered user.
type Customer struct {
	ID              int64
	UserID          int64
	Email           string
	FullName        string
	Phone           string
	CompanyName     *string
	Address         *string
	Notes           *string
	DiscountPercent int
	TotalOrders     int
	TotalSpent      int64
	LastOrderDate   *time.Time
	Status          string
	CreatedAt       time.Time
}

type CustomerUpdate struct {
	CompanyName     *string
	Address         *string
	Notes           *string
	DiscountPercent int
	Status          string
}
