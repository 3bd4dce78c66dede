package models

// AuthorityType is a read-only lookup for the kind of an Authority
// (for example "police" or "fire department").
type AuthorityType struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// TableName specifies the database table name for the AuthorityType model.
func (AuthorityType) TableName() string {
	return "authority_types"
}
