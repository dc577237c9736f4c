package model

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents a registered account
type User struct {
	Base
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	PasswordHash  string   `json:"-"` // Do not expose password hash in JSON responses
	ContactNumber string   `json:"contact_number"`
	Address       string   `json:"address"`
	Roles         []string `json:"roles"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
