package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository/memory"
)

var kst = time.FixedZone("KST", 9*60*60)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeThumbnails struct {
	saved []string
}

func (f *fakeThumbnails) Save(filename string, content io.Reader) (string, error) {
	if _, err := io.ReadAll(content); err != nil {
		return "", err
	}
	f.saved = append(f.saved, filename)
	return "upload/" + filename, nil
}

// fixture wires every service over one in-memory database.
type fixture struct {
	db        *memory.Store
	publisher *recordingPublisher
	now       time.Time
	tokens    *auth.TokenManager

	members *MemberService
	stores  *StoreService
	menus   *MenuService
	boards  *BoardService
	orders  *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:        memory.New(),
		publisher: &recordingPublisher{},
		now:       time.Date(2024, 3, 15, 12, 0, 0, 0, kst),
	}
	clock := func() time.Time { return f.now }
	f.tokens = auth.NewTokenManager([]byte("service-test-key"), time.Hour, auth.WithClock(clock))

	f.members = NewMemberService(MemberDependencies{
		MemberRepo: f.db.Members(),
		StoreRepo:  f.db.Stores(),
		Tokens:     f.tokens,
		BcryptCost: 4,
	})
	f.stores = NewStoreService(StoreDependencies{
		StoreRepo: f.db.Stores(),
		Publisher: f.publisher,
		Clock:     clock,
	})
	f.menus = NewMenuService(MenuDependencies{
		MenuRepo:  f.db.Menus(),
		StoreRepo: f.db.Stores(),
	})
	f.boards = NewBoardService(BoardDependencies{
		BoardRepo: f.db.Boards(),
		Publisher: f.publisher,
		Clock:     clock,
	})
	f.orders = NewOrderService(OrderDependencies{
		OrderRepo: f.db.Orders(),
		MenuRepo:  f.db.Menus(),
		StoreRepo: f.db.Stores(),
		Publisher: f.publisher,
		Location:  kst,
		Clock:     clock,
	})
	return f
}

// member inserts an account directly so tests can create administrators.
func (f *fixture) member(t *testing.T, userID string, role domain.Role) *domain.Identity {
	t.Helper()
	hash, err := auth.HashPassword("pw-"+userID, 4)
	require.NoError(t, err)
	m := &domain.Member{UserID: userID, PasswordHash: hash, Name: strings.ToUpper(userID), Role: role}
	require.NoError(t, f.db.Members().Create(context.Background(), m))
	return &domain.Identity{Subject: m.UserID, MemberID: m.ID, Role: m.Role}
}

func (f *fixture) store(t *testing.T, owner *domain.Identity, name string) *domain.Store {
	t.Helper()
	store, err := f.stores.Create(context.Background(), owner, StoreInput{
		Category: "korean",
		Name:     name,
		OpenH:    9,
		ClosedH:  21,
	})
	require.NoError(t, err)
	return store
}

func (f *fixture) menu(t *testing.T, owner *domain.Identity, storeID int64, title string, price int64) *domain.Menu {
	t.Helper()
	menu, err := f.menus.Create(context.Background(), owner, MenuInput{StoreID: storeID, Title: title, Price: price})
	require.NoError(t, err)
	return menu
}
