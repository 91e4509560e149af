package entity

// Role enumerates the application roles.
type Role string

const (
	RoleOperator Role = "Operador"
	RoleAdmin    Role = "Admin"
)

// User represents an application operator ("usuario"). The credential itself
// lives in the session provider; this document only carries the display name,
// role and permission tags shown in the user administration screen.
type User struct {
	Name        string   `firestore:"nombre" json:"nombre" validate:"required"`
	Email       string   `firestore:"email" json:"email" validate:"required,email"`
	Role        Role     `firestore:"rol" json:"rol" validate:"required,oneof=Operador Admin"`
	Permissions []string `firestore:"permisos" json:"permisos"`
}

// Can reports whether the user carries the given permission tag. Admins are
// implicitly granted everything.
func (u User) Can(permission string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}

	return false
}
