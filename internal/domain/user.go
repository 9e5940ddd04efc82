package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	FullName           *string   `db:"full_name" json:"full_name,omitempty"`
	ImageURL           *string   `db:"user_image_url" json:"user_image_url,omitempty"`
	PasswordHash       []byte    `db:"password_hash" json:"-"`
	PasswordSalt       []byte    `db:"password_salt" json:"-"`
	SubscriptionActive bool      `db:"subscription_active" json:"subscription_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
	Roles              []Role    `db:"-" json:"roles,omitempty"`
}

func (u *User) HasRoleNamed(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
