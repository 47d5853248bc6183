package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// OrderCreateRequest payload. TotalPrice is accepted for compatibility and ignored.
type OrderCreateRequest struct {
	StoreID    int64 `json:"storeId"`
	MenuID     int64 `json:"menuId"`
	Quantity   int   `json:"quantity"`
	TotalPrice int64 `json:"totalPrice,omitempty"`
}

// OrderUpdateRequest changes the quantity of an order.
type OrderUpdateRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// OrderDayRequest selects the caller's store orders between two days inclusive.
type OrderDayRequest struct {
	StartDay string `json:"startDay"`
	EndDay   string `json:"endDay"`
}

// SalesRequest selects a store and a month (YYYY-MM).
type SalesRequest struct {
	StoreID int64  `json:"storeId"`
	Month   string `json:"month"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID              int64     `json:"id"`
	MemberID        int64     `json:"memberId"`
	StoreID         int64     `json:"storeId"`
	MenuID          int64     `json:"menuId"`
	Quantity        int       `json:"quantity"`
	TotalPrice      int64     `json:"totalPrice"`
	CreatedAt       time.Time `json:"createdAt"`
	CustomerName    string    `json:"customerName,omitempty"`
	CustomerPhone   string    `json:"customerPhone,omitempty"`
	CustomerAddress string    `json:"customerAddress,omitempty"`
	StoreName       string    `json:"storeName,omitempty"`
	StoreAddress    string    `json:"storeAddress,omitempty"`
	MenuTitle       string    `json:"menuTitle,omitempty"`
	PaymentMethod   string    `json:"paymentMethod,omitempty"`
}

// MenuSalesResponse is one line of a sales report.
type MenuSalesResponse struct {
	MenuID   int64  `json:"menuId"`
	MenuName string `json:"menuName"`
	Count    int64  `json:"count"`
	Amount   int64  `json:"amount"`
}

// SalesResponse is a monthly sales report.
type SalesResponse struct {
	StoreID       int64               `json:"storeId"`
	StoreName     string              `json:"storeName"`
	Month         string              `json:"month"`
	MenuSalesList []MenuSalesResponse `json:"menuSalesList"`
	TotalAmount   int64               `json:"totalAmount"`
}

// NewOrderResponse maps a freshly placed order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		MemberID:      o.MemberID,
		StoreID:       o.StoreID,
		MenuID:        o.MenuID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt,
		PaymentMethod: domain.PaymentMethodPrepaid,
	}
}

// NewOrderDetailResponse maps an order with its joined fields.
func NewOrderDetailResponse(o *domain.OrderDetail) OrderResponse {
	resp := NewOrderResponse(&o.Order)
	resp.CustomerName = o.CustomerName
	resp.CustomerPhone = o.CustomerPhone
	resp.CustomerAddress = o.CustomerAddress
	resp.StoreName = o.StoreName
	resp.StoreAddress = o.StoreAddress
	resp.MenuTitle = o.MenuTitle
	resp.PaymentMethod = o.PaymentMethod
	return resp
}

// NewOrderDetailResponses maps a list of orders.
func NewOrderDetailResponses(orders []domain.OrderDetail) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderDetailResponse(&orders[i]))
	}
	return out
}

// NewSalesResponse maps a sales report; an empty month yields an empty list, never null.
func NewSalesResponse(r *domain.SalesReport) SalesResponse {
	lines := make([]MenuSalesResponse, 0, len(r.MenuSales))
	for _, line := range r.MenuSales {
		lines = append(lines, MenuSalesResponse{
			MenuID:   line.MenuID,
			MenuName: line.MenuName,
			Count:    line.Count,
			Amount:   line.Amount,
		})
	}
	return SalesResponse{
		StoreID:       r.StoreID,
		StoreName:     r.StoreName,
		Month:         r.Month,
		MenuSalesList: lines,
		TotalAmount:   r.TotalAmount,
	}
}
