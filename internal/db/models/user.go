package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// UserType discriminates the role a user account is bound to.
type UserType string

const (
	// UserTypeAuthority marks a user that backs exactly one Authority.
	// Its lifecycle is owned by the authority lifecycle manager.
	UserTypeAuthority UserType = "authority"
	// UserTypeAdmin marks an operator account.
	UserTypeAdmin UserType = "admin"
	// UserTypeCitizen marks a regular account.
	UserTypeCitizen UserType = "citizen"
)

// User represents a login capable account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Email is the unique login address.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Name is the display name.
	Name string `gorm:"size:255" json:"name"`
	// PhoneNumber is kept in sync with the owning Authority on update.
	PhoneNumber string `gorm:"size:255" json:"phone_number"`
	// Password is the Argon2id hash. It is never serialized.
	Password string `gorm:"size:255" json:"-"`
	// Type is the role tag of the account.
	Type UserType `gorm:"type:varchar(32);not null;default:'citizen'" json:"type"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using Argon2id with default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
