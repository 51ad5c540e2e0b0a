package model

// UserID is the canonical identifier of a person (student or teacher).
// It is resolved exactly once at the system boundary; nothing inside the
// engine derives an id from alternative fields.
type UserID string

// String returns the raw identifier.
func (id UserID) String() string { return string(id) }

// Role is the role the identity provider assigns to a user.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Identity is the authenticated caller handed to services.
type Identity struct {
	UserID UserID `json:"user_id"`
	Role   Role   `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// IsTeacher reports whether the identity carries the teacher role.
func (i Identity) IsTeacher() bool { return i.Role == RoleTeacher }

// ContainsUser reports whether id is in ids.
func ContainsUser(ids []UserID, id UserID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
