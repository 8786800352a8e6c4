package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Active       bool       `json:"-"`
}

// AccountView is the external projection of an Account. It never carries
// the password hash or the active flag.
type AccountView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

func (a *Account) View() *AccountView {
	return &AccountView{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}

// AccountPatch holds the mutable fields of an account. Empty strings mean
// "leave unchanged".
type AccountPatch struct {
	Name  string
	Email string
}

func (p AccountPatch) IsEmpty() bool {
	return p.Name == "" && p.Email == ""
}
