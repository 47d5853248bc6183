package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// OrderHandler exposes /api/order endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler constructs handler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /api/order/create.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.OrderCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.orders.PlaceOrder(c.UserContext(), identity(c), service.PlaceOrderInput{
		StoreID:  req.StoreID,
		MenuID:   req.MenuID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderResponse(order), "order placed")
}

// ListAll handles GET /api/order/list.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponses(orders), "orders found")
}

// Get handles GET /api/order/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponse(order), "order found")
}

// ListMine handles GET /api/order/member.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	orders, err := h.orders.ListMine(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponses(orders), "orders found")
}

// ListByStore handles GET /api/order/store/:id.
func (h *OrderHandler) ListByStore(c *fiber.Ctx) error {
	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	orders, err := h.orders.ListByStore(c.UserContext(), identity(c), storeID)
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponses(orders), "orders found")
}

// ListByDay handles POST /api/order/day.
func (h *OrderHandler) ListByDay(c *fiber.Ctx) error {
	var req dto.OrderDayRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	orders, err := h.orders.ListByDay(c.UserContext(), identity(c), req.StartDay, req.EndDay)
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponses(orders), "orders found")
}

// Update handles POST /api/order/update.
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var req dto.OrderUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.ID <= 0 {
		return apperrors.NewBadRequest("invalid id")
	}
	order, err := h.orders.UpdateQuantity(c.UserContext(), identity(c), req.ID, req.Quantity)
	if err != nil {
		return err
	}
	return success(c, dto.NewOrderDetailResponse(order), "order updated")
}

// Delete handles GET /api/order/delete/:id.
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.UserContext(), identity(c), id); err != nil {
		return err
	}
	return success(c, nil, "order deleted")
}

// Sales handles POST /api/order/sales.
func (h *OrderHandler) Sales(c *fiber.Ctx) error {
	var req dto.SalesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	report, err := h.orders.MonthlySales(c.UserContext(), identity(c), req.StoreID, req.Month)
	if err != nil {
		return err
	}
	return success(c, dto.NewSalesResponse(report), "sales found")
}
