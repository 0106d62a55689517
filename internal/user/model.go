package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain view of a platform account. Password hash and reset
// token fields never serialize to JSON.
type User struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Username            *string    `json:"username"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	ImageURL            *string    `json:"imageUrl"`
	Country             *string    `json:"country"`
	IsSuspended         bool       `json:"isSuspended"`
	ResetToken          *string    `json:"-"`
	ResetTokenCreatedAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Status reports the account state used in registration responses.
func (u *User) Status() string {
	if u.IsSuspended {
		return "pending"
	}
	return "approved"
}

// Role is an access role that can be attached to users.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
