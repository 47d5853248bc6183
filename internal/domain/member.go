package domain

import "time"

// Member is a registered account. UserID is the login id and the token subject.
type Member struct {
	ID           int64
	UserID       string
	PasswordHash string
	Name         string
	Birth        string
	Phone        string
	Email        string
	Address      string
	Role         Role
	Point        int64
	CreatedAt    time.Time
}

// Identity is the authenticated caller resolved for a single request.
type Identity struct {
	Subject  string
	MemberID int64
	Role     Role
}

// MemberIDOrZero tolerates a nil identity so anonymous callers reach the policy check.
func (i *Identity) MemberIDOrZero() int64 {
	if i == nil {
		return 0
	}
	return i.MemberID
}
