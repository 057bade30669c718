package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the single role assigned to a user.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleStaff       Role = "STAFF"
	RoleStorekeeper Role = "STOREKEEPER"
	RoleBaseManager Role = "BASE_MANAGER"
)

// HQBase is the global scope assigned to admin accounts.
const HQBase = "HQ"

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleStorekeeper, RoleBaseManager:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Base         string    `json:"base" db:"base"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Public returns the user with the password hash stripped, for embedding
// in API responses.
func (u *User) Public() *User {
	public := *u
	public.PasswordHash = ""
	return &public
}

// TokenResponse is the login and refresh response payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
