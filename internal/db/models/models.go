// Package models contains database model definitions.
package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&AuthorityType{},
		&Authority{},
		&ChatRoom{},
		&ChatRoomParticipant{},
	}
}
