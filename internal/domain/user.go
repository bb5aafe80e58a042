package domain

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleOwner   UserRole = "OWNER"
	UserRoleAdmin   UserRole = "ADMIN"
)

type User struct {
	ID           int32    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	CreatedOn    string   `json:"created_on"`
}

// Actor is the authenticated identity performing an operation. Capability
// checks happen once inside the operation, keyed off the role, instead of
// being re-derived at each call site.
type Actor struct {
	ID   int32
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
