package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/policy"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"

	// maxOrderQuantity matches the INTEGER quantity column.
	maxOrderQuantity = math.MaxInt32
)

// OrderService places orders, serves order views and aggregates sales.
type OrderService struct {
	orders    repository.OrderRepository
	menus     repository.MenuRepository
	stores    repository.StoreRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	loc       *time.Location
	now       Clock
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo repository.OrderRepository
	MenuRepo  repository.MenuRepository
	StoreRepo repository.StoreRepository
	Publisher events.Publisher
	Metrics   *observability.Metrics
	Location  *time.Location
	Clock     Clock
}

// PlaceOrderInput is a single-menu order request. Any client-computed total is ignored.
type PlaceOrderInput struct {
	StoreID  int64
	MenuID   int64
	Quantity int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:    deps.OrderRepo,
		menus:     deps.MenuRepo,
		stores:    deps.StoreRepo,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		loc:       loc,
		now:       now,
	}
}

// PlaceOrder validates the menu against the store, computes the total from
// the stored menu price and persists the order stamped in the service timezone.
func (s *OrderService) PlaceOrder(ctx context.Context, identity *domain.Identity, input PlaceOrderInput) (*domain.Order, error) {
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryOrder}, requesterOf(identity), policy.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	menu, err := s.menus.GetByID(ctx, input.MenuID)
	if err != nil {
		return nil, notFound(err, "menu", input.MenuID)
	}
	if _, err := s.stores.GetByID(ctx, input.StoreID); err != nil {
		return nil, notFound(err, "store", input.StoreID)
	}
	if menu.StoreID != input.StoreID {
		return nil, apperrors.NewValidationError("menu does not belong to the store", map[string]any{
			"menu_id":  menu.ID,
			"store_id": input.StoreID,
		})
	}

	total, err := orderTotal(menu.Price, input.Quantity)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		MemberID:   identity.MemberID,
		StoreID:    input.StoreID,
		MenuID:     menu.ID,
		Quantity:   input.Quantity,
		TotalPrice: total,
		CreatedAt:  s.now().In(s.loc),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.RecordOrder(order.TotalPrice)
	publishEvent(ctx, s.publisher, s.now, events.Event{
		Type:  events.EventOrderPlaced,
		Actor: actorOf(identity),
		Payload: events.OrderPlacedPayload{
			OrderID:    order.ID,
			StoreID:    order.StoreID,
			MenuID:     order.MenuID,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
		},
	})
	return order, nil
}

// Get returns an order visible to the caller.
func (s *OrderService) Get(ctx context.Context, identity *domain.Identity, id int64) (*domain.OrderDetail, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(identity, order, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.localize(order), nil
}

// ListAll returns every order. Administrators only.
func (s *OrderService) ListAll(ctx context.Context, identity *domain.Identity) ([]domain.OrderDetail, error) {
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryOrder}, requesterOf(identity), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.OrderFilter{})
}

// ListMine returns the caller's orders.
func (s *OrderService) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.OrderDetail, error) {
	memberID := identity.MemberIDOrZero()
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryOrder, OwnerID: memberID}, requesterOf(identity), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.OrderFilter{MemberID: memberID})
}

// ListByStore returns the orders of a store for its owner or an administrator.
func (s *OrderService) ListByStore(ctx context.Context, identity *domain.Identity, storeID int64) ([]domain.OrderDetail, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, notFound(err, "store", storeID)
	}
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryOrder, StoreOwnerID: store.MemberID}, requesterOf(identity), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.OrderFilter{StoreID: store.ID})
}

// ListByDay returns the orders of the caller's store between startDay and
// endDay inclusive, both YYYY-MM-DD in the service timezone.
func (s *OrderService) ListByDay(ctx context.Context, identity *domain.Identity, startDay, endDay string) ([]domain.OrderDetail, error) {
	from, err := time.ParseInLocation(dayLayout, startDay, s.loc)
	if err != nil {
		return nil, apperrors.NewValidationError("startDay must be YYYY-MM-DD", map[string]any{"startDay": startDay})
	}
	last, err := time.ParseInLocation(dayLayout, endDay, s.loc)
	if err != nil {
		return nil, apperrors.NewValidationError("endDay must be YYYY-MM-DD", map[string]any{"endDay": endDay})
	}
	if last.Before(from) {
		return nil, apperrors.NewValidationError("endDay is before startDay", map[string]any{"startDay": startDay, "endDay": endDay})
	}
	to := last.AddDate(0, 0, 1)

	memberID := identity.MemberIDOrZero()
	store, err := s.stores.GetByOwner(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("store", map[string]any{"member_id": memberID})
		}
		return nil, err
	}
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryOrder, StoreOwnerID: store.MemberID}, requesterOf(identity), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.OrderFilter{StoreID: store.ID, From: &from, To: &to})
}

// UpdateQuantity changes an order's quantity and recomputes its total from the current menu price.
func (s *OrderService) UpdateQuantity(ctx context.Context, identity *domain.Identity, id int64, quantity int) (*domain.OrderDetail, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(identity, order, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	menu, err := s.menus.GetByID(ctx, order.MenuID)
	if err != nil {
		return nil, notFound(err, "menu", order.MenuID)
	}
	total, err := orderTotal(menu.Price, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateQuantity(ctx, id, quantity, total); err != nil {
		return nil, notFound(err, "order", id)
	}
	order.Quantity = quantity
	order.TotalPrice = total
	return s.localize(order), nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOrder(identity, order, policy.ActionDelete); err != nil {
		return err
	}
	return notFound(s.orders.Delete(ctx, id), "order", id)
}

// MonthlySales aggregates a store's orders of month (YYYY-MM) per menu.
// A month without orders yields an empty report, not an error.
func (s *OrderService) MonthlySales(ctx context.Context, identity *domain.Identity, storeID int64, month string) (*domain.SalesReport, error) {
	if err := policy.Authorize(policy.Resource{Category: policy.CategorySales}, requesterOf(identity), policy.ActionRead); err != nil {
		return nil, err
	}

	from, err := time.ParseInLocation(monthLayout, month, s.loc)
	if err != nil {
		return nil, apperrors.NewValidationError("month must be YYYY-MM", map[string]any{"month": month})
	}
	to := from.AddDate(0, 1, 0)

	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, notFound(err, "store", storeID)
	}

	sales, err := s.orders.SalesByMenu(ctx, store.ID, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.SalesReport{
		StoreID:   store.ID,
		StoreName: store.Name,
		Month:     from.Format(monthLayout),
		MenuSales: []domain.MenuSales{},
	}
	for _, line := range sales {
		report.MenuSales = append(report.MenuSales, line)
		report.TotalAmount += line.Amount
	}
	return report, nil
}

func (s *OrderService) load(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return order, nil
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) ([]domain.OrderDetail, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].CreatedAt = orders[i].CreatedAt.In(s.loc)
	}
	return orders, nil
}

func (s *OrderService) localize(order *domain.OrderDetail) *domain.OrderDetail {
	order.CreatedAt = order.CreatedAt.In(s.loc)
	return order
}

func authorizeOrder(identity *domain.Identity, order *domain.OrderDetail, action policy.Action) error {
	resource := policy.Resource{
		Category:     policy.CategoryOrder,
		OwnerID:      order.MemberID,
		StoreOwnerID: order.StoreOwnerID,
	}
	return policy.Authorize(resource, requesterOf(identity), action)
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity must be at least 1", map[string]any{"quantity": quantity})
	}
	if quantity > maxOrderQuantity {
		return apperrors.NewValidationError("quantity is too large", map[string]any{"quantity": quantity, "max": maxOrderQuantity})
	}
	return nil
}

// orderTotal multiplies price by quantity, rejecting products that do not fit in int64.
func orderTotal(price int64, quantity int) (int64, error) {
	if price > 0 && int64(quantity) > math.MaxInt64/price {
		return 0, apperrors.NewValidationError("order total is too large", map[string]any{"price": price, "quantity": quantity})
	}
	return price * int64(quantity), nil
}
