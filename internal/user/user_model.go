package user

import "gorm.io/gorm"

// Role names consumed by the access predicate. A user holds exactly one role;
// it rides in the JWT claim and is fixed at registration.
const (
	RoleAdmin  = "admin"
	RoleUmpire = "umpire"
	RoleViewer = "viewer"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"not null;default:'viewer'" json:"role"`
}

// ValidRole reports whether r is one of the known role names.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUmpire || r == RoleViewer
}
