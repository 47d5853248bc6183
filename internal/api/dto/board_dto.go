package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BoardRequest payload for creating or updating a post. Category is ignored on update.
type BoardRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// BoardResponse is the public view of a post.
type BoardResponse struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	MemberID  int64     `json:"memberId"`
	UserID    string    `json:"userid"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBoardResponse maps a post.
func NewBoardResponse(p *domain.BoardPost) BoardResponse {
	return BoardResponse{
		ID:        p.ID,
		Category:  string(p.Category),
		MemberID:  p.MemberID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

// NewBoardResponses maps a list of posts.
func NewBoardResponses(posts []domain.BoardPost) []BoardResponse {
	out := make([]BoardResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewBoardResponse(&posts[i]))
	}
	return out
}
