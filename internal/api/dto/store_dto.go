package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// StoreRequest carries store fields. It is bound from JSON or multipart form
// values; the thumbnail file travels as the "thumbnailFile" form part.
type StoreRequest struct {
	ID       int64  `json:"id" form:"id"`
	Category string `json:"category" form:"category"`
	Name     string `json:"name" form:"name"`
	Address  string `json:"address" form:"address"`
	Phone    string `json:"phone" form:"phone"`
	OpenH    int    `json:"openH" form:"openH"`
	OpenM    int    `json:"openM" form:"openM"`
	ClosedH  int    `json:"closedH" form:"closedH"`
	ClosedM  int    `json:"closedM" form:"closedM"`
}

// StoreResponse is the public view of a store.
type StoreResponse struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"memberId"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	OpenH     int       `json:"openH"`
	OpenM     int       `json:"openM"`
	ClosedH   int       `json:"closedH"`
	ClosedM   int       `json:"closedM"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStoreResponse maps a store.
func NewStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		MemberID:  s.MemberID,
		Category:  s.Category,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		OpenH:     s.OpenH,
		OpenM:     s.OpenM,
		ClosedH:   s.ClosedH,
		ClosedM:   s.ClosedM,
		Thumbnail: s.Thumbnail,
		CreatedAt: s.CreatedAt,
	}
}

// NewStoreResponses maps a list of stores.
func NewStoreResponses(stores []domain.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		out = append(out, NewStoreResponse(&stores[i]))
	}
	return out
}
