package user

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

// All fields optional; rules apply only when a field is present.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Role     *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type ListFilter struct {
	Name  *string
	Email *string
	Role  *string
}

// CanAccess is the ownership rule shared by the user-management endpoints:
// admins may act on any record, everyone else only on their own.
func CanAccess(role, actorID, targetID string) bool {
	if role == RoleAdmin {
		return true
	}

	return actorID == targetID
}
