package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced      EventType = "order_placed"
	EventStoreRegistered  EventType = "store_registered"
	EventBoardPostCreated EventType = "board_post_created"
)

// Actor identifies the member that caused an event.
type Actor struct {
	MemberID int64       `json:"member_id"`
	Role     domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	OrderID    int64 `json:"order_id"`
	StoreID    int64 `json:"store_id"`
	MenuID     int64 `json:"menu_id"`
	Quantity   int   `json:"quantity"`
	TotalPrice int64 `json:"total_price"`
}

// StoreRegisteredPayload payload.
type StoreRegisteredPayload struct {
	StoreID  int64  `json:"store_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// BoardPostCreatedPayload payload.
type BoardPostCreatedPayload struct {
	PostID   int64                `json:"post_id"`
	Category domain.BoardCategory `json:"category"`
	Title    string               `json:"title"`
}
