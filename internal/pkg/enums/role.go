package enums

// Role says which side of the reconciliation a source feeds.
// The primary (A) provides odds and owns the stored row; the secondary (B) provides results.
type Role string

const (
	RolePrimary   Role = "A"
	RoleSecondary Role = "B"
)

// IsValid checks if role is supported
func (r Role) IsValid() bool {
	return r == RolePrimary || r == RoleSecondary
}

// String returns string representation
func (r Role) String() string {
	return string(r)
}
