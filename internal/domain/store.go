package domain

import "time"

// Store is a shop owned by an OWNER member.
type Store struct {
	ID        int64
	MemberID  int64
	Category  string
	Name      string
	Address   string
	Phone     string
	OpenH     int
	OpenM     int
	ClosedH   int
	ClosedM   int
	Thumbnail string
	CreatedAt time.Time
}
