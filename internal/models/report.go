package models

type DashboardStats struct {
	TotalOrders      int64
	TotalRevenue     int64
	AvgOrderValue    int64
	TotalProducts    int64
	TotalCustomers   int64
	OrdersLastMonth  int64
	RevenueLastMonth int64
}

type SalesDay struct {
	Date    string
	Orders  int64
	Revenue int64
}

type ProductStat struct {
	Name          string
	Category      string
	TimesOrdered  int64
	TotalQuantity int64
	TotalRevenue  int64
}
