package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/policy"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// StoreService manages store registration and lookup.
type StoreService struct {
	stores     repository.StoreRepository
	thumbnails ThumbnailStore
	publisher  events.Publisher
	now        Clock
}

// StoreDependencies bundles collaborators for the store service.
type StoreDependencies struct {
	StoreRepo  repository.StoreRepository
	Thumbnails ThumbnailStore
	Publisher  events.Publisher
	Clock      Clock
}

// StoreInput carries editable store fields.
type StoreInput struct {
	Category  string
	Name      string
	Address   string
	Phone     string
	OpenH     int
	OpenM     int
	ClosedH   int
	ClosedM   int
	Thumbnail *Upload
}

// NewStoreService constructs the service.
func NewStoreService(deps StoreDependencies) *StoreService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &StoreService{
		stores:     deps.StoreRepo,
		thumbnails: deps.Thumbnails,
		publisher:  deps.Publisher,
		now:        now,
	}
}

// Create registers the caller's store. An owner runs at most one store.
func (s *StoreService) Create(ctx context.Context, identity *domain.Identity, input StoreInput) (*domain.Store, error) {
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryStore}, requesterOf(identity), policy.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateStoreInput(input); err != nil {
		return nil, err
	}

	switch existing, err := s.stores.GetByOwner(ctx, identity.MemberID); {
	case err == nil:
		return nil, storeTaken(existing.ID)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	thumbnail, err := saveThumbnail(s.thumbnails, input.Thumbnail)
	if err != nil {
		return nil, err
	}

	store := &domain.Store{MemberID: identity.MemberID, Thumbnail: thumbnail}
	applyStoreInput(store, input)
	if err := s.stores.Create(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, storeTaken(0)
		}
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.now, events.Event{
		Type:  events.EventStoreRegistered,
		Actor: actorOf(identity),
		Payload: events.StoreRegisteredPayload{
			StoreID:  store.ID,
			Name:     store.Name,
			Category: store.Category,
		},
	})
	return store, nil
}

// Get returns one store.
func (s *StoreService) Get(ctx context.Context, id int64) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "store", id)
	}
	return store, nil
}

// List returns every store.
func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}

// Search returns stores whose name contains name, ignoring case.
func (s *StoreService) Search(ctx context.Context, name string) ([]domain.Store, error) {
	if strings.TrimSpace(name) == "" {
		return s.stores.List(ctx)
	}
	return s.stores.SearchByName(ctx, name)
}

// Update edits a store owned by the caller. A nil thumbnail keeps the current image.
func (s *StoreService) Update(ctx context.Context, identity *domain.Identity, id int64, input StoreInput) (*domain.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryStore, OwnerID: store.MemberID}, requesterOf(identity), policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateStoreInput(input); err != nil {
		return nil, err
	}

	thumbnail, err := saveThumbnail(s.thumbnails, input.Thumbnail)
	if err != nil {
		return nil, err
	}
	if thumbnail != "" {
		store.Thumbnail = thumbnail
	}
	applyStoreInput(store, input)

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, notFound(err, "store", id)
	}
	return store, nil
}

// Delete removes a store with its menus and orders.
func (s *StoreService) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	store, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryStore, OwnerID: store.MemberID}, requesterOf(identity), policy.ActionDelete); err != nil {
		return err
	}
	return notFound(s.stores.Delete(ctx, id), "store", id)
}

func storeTaken(existingID int64) error {
	details := map[string]any{}
	if existingID != 0 {
		details["store_id"] = existingID
	}
	return apperrors.NewValidationError("owner already has a store", details)
}

func validateStoreInput(input StoreInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("store name is required", nil)
	}
	if !validClock(input.OpenH, input.OpenM) || !validClock(input.ClosedH, input.ClosedM) {
		return apperrors.NewValidationError("opening hours must be within 00:00-23:59", map[string]any{
			"open_h": input.OpenH, "open_m": input.OpenM,
			"closed_h": input.ClosedH, "closed_m": input.ClosedM,
		})
	}
	return nil
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

func applyStoreInput(store *domain.Store, input StoreInput) {
	store.Category = strings.TrimSpace(input.Category)
	store.Name = strings.TrimSpace(input.Name)
	store.Address = strings.TrimSpace(input.Address)
	store.Phone = strings.TrimSpace(input.Phone)
	store.OpenH = input.OpenH
	store.OpenM = input.OpenM
	store.ClosedH = input.ClosedH
	store.ClosedM = input.ClosedM
}
