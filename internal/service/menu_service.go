package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/policy"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// MenuService manages the menus of a store.
type MenuService struct {
	menus      repository.MenuRepository
	stores     repository.StoreRepository
	thumbnails ThumbnailStore
}

// MenuDependencies bundles collaborators for the menu service.
type MenuDependencies struct {
	MenuRepo   repository.MenuRepository
	StoreRepo  repository.StoreRepository
	Thumbnails ThumbnailStore
}

// MenuInput carries editable menu fields. A zero StoreID on create means the
// caller's own store.
type MenuInput struct {
	StoreID   int64
	Title     string
	Content   string
	Price     int64
	Thumbnail *Upload
}

// NewMenuService constructs the service.
func NewMenuService(deps MenuDependencies) *MenuService {
	return &MenuService{
		menus:      deps.MenuRepo,
		stores:     deps.StoreRepo,
		thumbnails: deps.Thumbnails,
	}
}

// Create adds a menu to a store owned by the caller.
func (s *MenuService) Create(ctx context.Context, identity *domain.Identity, input MenuInput) (*domain.Menu, error) {
	store, err := s.targetStore(ctx, identity, input.StoreID)
	if err != nil {
		return nil, err
	}
	if err := authorizeMenu(identity, store, policy.ActionCreate); err != nil {
		return nil, err
	}
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	thumbnail, err := saveThumbnail(s.thumbnails, input.Thumbnail)
	if err != nil {
		return nil, err
	}
	menu := &domain.Menu{
		StoreID:   store.ID,
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		Price:     input.Price,
		Thumbnail: thumbnail,
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Get returns one menu.
func (s *MenuService) Get(ctx context.Context, id int64) (*domain.Menu, error) {
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu", id)
	}
	return menu, nil
}

// ListByStore returns the menus of a store.
func (s *MenuService) ListByStore(ctx context.Context, storeID int64) ([]domain.Menu, error) {
	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		return nil, notFound(err, "store", storeID)
	}
	return s.menus.ListByStore(ctx, storeID)
}

// Update edits a menu of a store owned by the caller. A nil thumbnail keeps the current image.
func (s *MenuService) Update(ctx context.Context, identity *domain.Identity, id int64, input MenuInput) (*domain.Menu, error) {
	menu, store, err := s.loadWithStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeMenu(identity, store, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	thumbnail, err := saveThumbnail(s.thumbnails, input.Thumbnail)
	if err != nil {
		return nil, err
	}
	if thumbnail != "" {
		menu.Thumbnail = thumbnail
	}
	menu.Title = strings.TrimSpace(input.Title)
	menu.Content = strings.TrimSpace(input.Content)
	menu.Price = input.Price

	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, notFound(err, "menu", id)
	}
	return menu, nil
}

// Delete removes a menu of a store owned by the caller.
func (s *MenuService) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	_, store, err := s.loadWithStore(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeMenu(identity, store, policy.ActionDelete); err != nil {
		return err
	}
	return notFound(s.menus.Delete(ctx, id), "menu", id)
}

func (s *MenuService) targetStore(ctx context.Context, identity *domain.Identity, storeID int64) (*domain.Store, error) {
	if storeID != 0 {
		store, err := s.stores.GetByID(ctx, storeID)
		if err != nil {
			return nil, notFound(err, "store", storeID)
		}
		return store, nil
	}
	if identity == nil {
		return nil, apperrors.NewInvalidToken()
	}
	store, err := s.stores.GetByOwner(ctx, identity.MemberID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("store", map[string]any{"member_id": identity.MemberID})
	}
	return store, err
}

func (s *MenuService) loadWithStore(ctx context.Context, id int64) (*domain.Menu, *domain.Store, error) {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	store, err := s.stores.GetByID(ctx, menu.StoreID)
	if err != nil {
		return nil, nil, notFound(err, "store", menu.StoreID)
	}
	return menu, store, nil
}

func authorizeMenu(identity *domain.Identity, store *domain.Store, action policy.Action) error {
	return policy.Authorize(policy.Resource{Category: policy.CategoryMenu, StoreOwnerID: store.MemberID}, requesterOf(identity), action)
}

func validateMenuInput(input MenuInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("menu title is required", nil)
	}
	if input.Price < 0 {
		return apperrors.NewValidationError("price must not be negative", map[string]any{"price": input.Price})
	}
	return nil
}
