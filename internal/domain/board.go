package domain

import (
	"strings"
	"time"
)

// BoardCategory classifies posts and drives their access rules.
type BoardCategory string

const (
	BoardCategoryNotice BoardCategory = "notice"
	BoardCategoryQnA    BoardCategory = "qna"
)

// ParseBoardCategory accepts any casing of a known category.
func ParseBoardCategory(s string) (BoardCategory, bool) {
	switch {
	case strings.EqualFold(s, string(BoardCategoryNotice)):
		return BoardCategoryNotice, true
	case strings.EqualFold(s, string(BoardCategoryQnA)):
		return BoardCategoryQnA, true
	default:
		return "", false
	}
}

// BoardPost is a notice or Q&A entry. Category and MemberID never change after creation.
type BoardPost struct {
	ID        int64
	Category  BoardCategory
	MemberID  int64
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
}
