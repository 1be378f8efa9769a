package users

import "time"

// Role define los roles soportados.
// @Enum ADMIN, STANDARD
type Role = string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStandard Role = "STANDARD"
)

// User representa una cuenta del registro. PasswordHash nunca sale
// por el API; los handlers arman su propio DTO.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
