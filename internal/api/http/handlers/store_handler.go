package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// StoreHandler exposes /api/store endpoints.
type StoreHandler struct {
	stores *service.StoreService
}

// NewStoreHandler constructs handler.
func NewStoreHandler(stores *service.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// Create handles POST /api/store/create.
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	input, closeFile, err := storeInput(c)
	if err != nil {
		return err
	}
	defer closeFile()

	store, err := h.stores.Create(c.UserContext(), identity(c), input.StoreInput)
	if err != nil {
		return err
	}
	return success(c, dto.NewStoreResponse(store), "store registered")
}

// List handles GET /api/store/all.
func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.stores.List(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, dto.NewStoreResponses(stores), "stores found")
}

// Get handles GET /api/store/info/:id.
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	store, err := h.stores.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, dto.NewStoreResponse(store), "store found")
}

// Update handles POST /api/store/info.
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	input, closeFile, err := storeInput(c)
	if err != nil {
		return err
	}
	defer closeFile()
	if input.id <= 0 {
		return apperrors.NewBadRequest("invalid id")
	}

	store, err := h.stores.Update(c.UserContext(), identity(c), input.id, input.StoreInput)
	if err != nil {
		return err
	}
	return success(c, dto.NewStoreResponse(store), "store updated")
}

// Delete handles GET /api/store/delete/:id.
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.stores.Delete(c.UserContext(), identity(c), id); err != nil {
		return err
	}
	return success(c, nil, "store deleted")
}

// Search handles GET /api/store/search?name=.
func (h *StoreHandler) Search(c *fiber.Ctx) error {
	stores, err := h.stores.Search(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return success(c, dto.NewStoreResponses(stores), "stores found")
}

type boundStore struct {
	service.StoreInput
	id int64
}

func storeInput(c *fiber.Ctx) (boundStore, func(), error) {
	var req dto.StoreRequest
	if err := bind(c, &req); err != nil {
		return boundStore{}, func() {}, err
	}
	upload, closeFile, err := thumbnail(c)
	if err != nil {
		return boundStore{}, closeFile, err
	}
	return boundStore{
		id: req.ID,
		StoreInput: service.StoreInput{
			Category:  req.Category,
			Name:      req.Name,
			Address:   req.Address,
			Phone:     req.Phone,
			OpenH:     req.OpenH,
			OpenM:     req.OpenM,
			ClosedH:   req.ClosedH,
			ClosedM:   req.ClosedM,
			Thumbnail: upload,
		},
	}, closeFile, nil
}
