package dto

import "github.com/spec-kit/marketplace-service/internal/domain"

// MenuRequest carries menu fields from JSON or multipart form values.
type MenuRequest struct {
	StoreID int64  `json:"storeId" form:"storeId"`
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
	Price   int64  `json:"price" form:"price"`
}

// MenuResponse is the public view of a menu.
type MenuResponse struct {
	ID        int64  `json:"id"`
	StoreID   int64  `json:"storeId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Price     int64  `json:"price"`
	Thumbnail string `json:"thumbnail"`
}

// NewMenuResponse maps a menu.
func NewMenuResponse(m *domain.Menu) MenuResponse {
	return MenuResponse{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Title:     m.Title,
		Content:   m.Content,
		Price:     m.Price,
		Thumbnail: m.Thumbnail,
	}
}

// NewMenuResponses maps a list of menus.
func NewMenuResponses(menus []domain.Menu) []MenuResponse {
	out := make([]MenuResponse, 0, len(menus))
	for i := range menus {
		out = append(out, NewMenuResponse(&menus[i]))
	}
	return out
}
