package models

import "time"

// Authority is a role profile paired 1:1 with a User.
//
// The pair is created, updated and deleted together inside one transaction by
// the authority lifecycle manager; a User referenced here is never removed on
// its own.
type Authority struct {
	// ID is the unique identifier for the authority.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// FirstName of the person behind the authority account.
	FirstName string `gorm:"size:255;not null" json:"first_name"`
	// LastName of the person behind the authority account.
	LastName string `gorm:"size:255;not null" json:"last_name"`
	// UserID references the backing user. Unique, so a user backs at most one authority.
	UserID uint64 `gorm:"not null;uniqueIndex" json:"user_id"`
	// User is the backing account, loaded on demand.
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"user,omitempty"`
	// AuthorityTypeID references the authority type.
	AuthorityTypeID uint64 `gorm:"not null;index" json:"authority_type_id"`
	// AuthorityType is the referenced lookup row, loaded on demand.
	AuthorityType *AuthorityType `gorm:"foreignKey:AuthorityTypeID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	// Type is the authority type name. Read only, filled by joined queries.
	Type string `gorm:"->;-:migration" json:"type"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Authority model.
func (Authority) TableName() string {
	return "authorities"
}
