package domain

import "time"

// PaymentMethodPrepaid is the only payment method the marketplace supports.
const PaymentMethodPrepaid = "PREPAID"

// Order is a single-menu purchase. TotalPrice is always computed server-side.
type Order struct {
	ID         int64
	MemberID   int64
	StoreID    int64
	MenuID     int64
	Quantity   int
	TotalPrice int64
	CreatedAt  time.Time
}

// OrderDetail is the read model joining an order with its customer, store and menu.
type OrderDetail struct {
	Order
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	StoreName       string
	StoreAddress    string
	StoreOwnerID    int64
	MenuTitle       string
	PaymentMethod   string
}

// MenuSales is the per-menu line of a sales report.
type MenuSales struct {
	MenuID   int64
	MenuName string
	Count    int64
	Amount   int64
}

// SalesReport aggregates a store's orders over one month.
type SalesReport struct {
	StoreID     int64
	StoreName   string
	Month       string
	MenuSales   []MenuSales
	TotalAmount int64
}
