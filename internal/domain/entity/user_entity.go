package entity

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the known account statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// User is the aggregate root for identities.
// Password holds a bcrypt hash and stays empty for accounts created through a
// federated provider until the owner sets one.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	GoogleID  string    `json:"google_id,omitempty"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsSuspended() bool { return u.Status == StatusSuspended }

func (u *User) HasPassword() bool { return u.Password != "" }
