// Package memory implements the repositories on in-process maps. It backs the
// service when no database is configured and serves as the test double for
// services and handlers.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// Store holds every table. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	nextID  int64
	members map[int64]domain.Member
	stores  map[int64]domain.Store
	menus   map[int64]domain.Menu
	posts   map[int64]domain.BoardPost
	orders  map[int64]domain.Order
}

// New returns an empty database.
func New() *Store {
	return &Store{
		now:     time.Now,
		members: map[int64]domain.Member{},
		stores:  map[int64]domain.Store{},
		menus:   map[int64]domain.Menu{},
		posts:   map[int64]domain.BoardPost{},
		orders:  map[int64]domain.Order{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Members returns the member repository view.
func (s *Store) Members() repository.MemberRepository { return memberRepo{s} }

// Stores returns the store repository view.
func (s *Store) Stores() repository.StoreRepository { return storeRepo{s} }

// Menus returns the menu repository view.
func (s *Store) Menus() repository.MenuRepository { return menuRepo{s} }

// Boards returns the board repository view.
func (s *Store) Boards() repository.BoardRepository { return boardRepo{s} }

// Orders returns the order repository view.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

// OrderCount reports how many orders are stored.
func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

type memberRepo struct{ s *Store }

func (r memberRepo) Create(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.UserID == member.UserID {
			return repository.ErrDuplicate
		}
	}
	member.ID = r.s.id()
	member.CreatedAt = r.s.now()
	r.s.members[member.ID] = *member
	return nil
}

func (r memberRepo) UpdateProfile(_ context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.members[member.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	current.PasswordHash = member.PasswordHash
	current.Name = member.Name
	current.Birth = member.Birth
	current.Phone = member.Phone
	current.Email = member.Email
	current.Address = member.Address
	r.s.members[member.ID] = current
	return nil
}

func (r memberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r memberRepo) GetByUserID(_ context.Context, userID string) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.members {
		if m.UserID == userID {
			return &m, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memberRepo) AddPoint(_ context.Context, id int64, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	m.Point += amount
	r.s.members[id] = m
	return m.Point, nil
}

func (r memberRepo) SetPoint(_ context.Context, id int64, point int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return pgx.ErrNoRows
	}
	m.Point = point
	r.s.members[id] = m
	return nil
}

type storeRepo struct{ s *Store }

func (r storeRepo) Create(_ context.Context, store *domain.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.stores {
		if existing.MemberID == store.MemberID {
			return repository.ErrDuplicate
		}
	}
	store.ID = r.s.id()
	store.CreatedAt = r.s.now()
	r.s.stores[store.ID] = *store
	return nil
}

func (r storeRepo) Update(_ context.Context, store *domain.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.stores[store.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *store
	updated.MemberID = current.MemberID
	updated.CreatedAt = current.CreatedAt
	r.s.stores[store.ID] = updated
	return nil
}

// Delete cascades to menus and orders like the SQL schema.
func (r storeRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stores[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.stores, id)
	for menuID, menu := range r.s.menus {
		if menu.StoreID == id {
			delete(r.s.menus, menuID)
		}
	}
	for orderID, order := range r.s.orders {
		if order.StoreID == id {
			delete(r.s.orders, orderID)
		}
	}
	return nil
}

func (r storeRepo) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	store, ok := r.s.stores[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &store, nil
}

func (r storeRepo) GetByOwner(_ context.Context, memberID int64) (*domain.Store, error) {
	stores := r.filter(func(s domain.Store) bool { return s.MemberID == memberID })
	if len(stores) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &stores[0], nil
}

func (r storeRepo) List(_ context.Context) ([]domain.Store, error) {
	return r.filter(func(domain.Store) bool { return true }), nil
}

func (r storeRepo) SearchByName(_ context.Context, name string) ([]domain.Store, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	return r.filter(func(s domain.Store) bool {
		return strings.Contains(strings.ToLower(s.Name), needle)
	}), nil
}

func (r storeRepo) filter(keep func(domain.Store) bool) []domain.Store {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Store{}
	for _, store := range r.s.stores {
		if keep(store) {
			out = append(out, store)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type menuRepo struct{ s *Store }

func (r menuRepo) Create(_ context.Context, menu *domain.Menu) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	menu.ID = r.s.id()
	r.s.menus[menu.ID] = *menu
	return nil
}

func (r menuRepo) Update(_ context.Context, menu *domain.Menu) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.menus[menu.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *menu
	updated.StoreID = current.StoreID
	r.s.menus[menu.ID] = updated
	return nil
}

func (r menuRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menus[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.menus, id)
	return nil
}

func (r menuRepo) GetByID(_ context.Context, id int64) (*domain.Menu, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	menu, ok := r.s.menus[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &menu, nil
}

func (r menuRepo) ListByStore(_ context.Context, storeID int64) ([]domain.Menu, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Menu{}
	for _, menu := range r.s.menus {
		if menu.StoreID == storeID {
			out = append(out, menu)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type boardRepo struct{ s *Store }

func (r boardRepo) Create(_ context.Context, post *domain.BoardPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = r.s.id()
	post.CreatedAt = r.s.now()
	r.s.posts[post.ID] = *post
	return nil
}

func (r boardRepo) Update(_ context.Context, post *domain.BoardPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	current.Title = post.Title
	current.Content = post.Content
	r.s.posts[post.ID] = current
	return nil
}

func (r boardRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.posts, id)
	return nil
}

func (r boardRepo) GetByID(_ context.Context, id int64) (*domain.BoardPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.withAuthor(&post)
	return &post, nil
}

func (r boardRepo) List(_ context.Context, filter repository.BoardFilter) ([]domain.BoardPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.BoardPost{}
	for _, post := range r.s.posts {
		if post.Category != filter.Category {
			continue
		}
		if filter.MemberID != 0 && post.MemberID != filter.MemberID {
			continue
		}
		r.withAuthor(&post)
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r boardRepo) withAuthor(post *domain.BoardPost) {
	if m, ok := r.s.members[post.MemberID]; ok {
		post.UserID = m.UserID
	}
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.ID = r.s.id()
	r.s.orders[order.ID] = *order
	return nil
}

func (r orderRepo) UpdateQuantity(_ context.Context, id int64, quantity int, total int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Quantity = quantity
	order.TotalPrice = total
	r.s.orders[id] = order
	return nil
}

func (r orderRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.orders, id)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*domain.OrderDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	detail := r.detail(order)
	return &detail, nil
}

func (r orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.OrderDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.OrderDetail{}
	for _, order := range r.s.orders {
		if filter.MemberID != 0 && order.MemberID != filter.MemberID {
			continue
		}
		if filter.StoreID != 0 && order.StoreID != filter.StoreID {
			continue
		}
		if filter.From != nil && order.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !order.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, r.detail(order))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r orderRepo) SalesByMenu(_ context.Context, storeID int64, from, to time.Time) ([]domain.MenuSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byMenu := map[int64]*domain.MenuSales{}
	for _, order := range r.s.orders {
		if order.StoreID != storeID || order.CreatedAt.Before(from) || !order.CreatedAt.Before(to) {
			continue
		}
		line, ok := byMenu[order.MenuID]
		if !ok {
			line = &domain.MenuSales{MenuID: order.MenuID, MenuName: r.s.menus[order.MenuID].Title}
			byMenu[order.MenuID] = line
		}
		line.Count += int64(order.Quantity)
		line.Amount += order.TotalPrice
	}

	out := make([]domain.MenuSales, 0, len(byMenu))
	for _, line := range byMenu {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].MenuID < out[j].MenuID
	})
	return out, nil
}

func (r orderRepo) detail(order domain.Order) domain.OrderDetail {
	member := r.s.members[order.MemberID]
	store := r.s.stores[order.StoreID]
	return domain.OrderDetail{
		Order:           order,
		CustomerName:    member.Name,
		CustomerPhone:   member.Phone,
		CustomerAddress: member.Address,
		StoreName:       store.Name,
		StoreAddress:    store.Address,
		StoreOwnerID:    store.MemberID,
		MenuTitle:       r.s.menus[order.MenuID].Title,
		PaymentMethod:   domain.PaymentMethodPrepaid,
	}
}
