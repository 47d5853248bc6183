package domain

// Role is the coarse permission level of a member.
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalizes a stored or submitted role; the comparison is ASCII case-insensitive.
func ParseRole(s string) (Role, bool) {
	for _, role := range []Role{RoleUser, RoleOwner, RoleAdmin} {
		if equalFoldASCII(s, string(role)) {
			return role, true
		}
	}
	return "", false
}

// Is reports whether r names the same role as other, ignoring ASCII case.
func (r Role) Is(other Role) bool {
	return equalFoldASCII(string(r), string(other))
}

// equalFoldASCII folds only A-Z; strings.EqualFold would also match
// Unicode folds such as the long s against 's'.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
