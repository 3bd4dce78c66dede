package models

import "time"

// ChatRoom is a realtime conversation. Rooms are referenced by the channel
// authorization service, never modified by it.
type ChatRoom struct {
	ID           uint64                `gorm:"primaryKey" json:"id"`
	Name         string                `gorm:"size:255" json:"name"`
	Participants []ChatRoomParticipant `gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TableName specifies the database table name for the ChatRoom model.
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// ChatRoomParticipant links a user to a chat room.
type ChatRoomParticipant struct {
	ChatRoomID uint64    `gorm:"primaryKey;column:chat_room_id" json:"chat_room_id"`
	UserID     uint64    `gorm:"primaryKey;column:user_id;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the database table name for the ChatRoomParticipant model.
func (ChatRoomParticipant) TableName() string {
	return "chat_room_participants"
}

// HasParticipant reports whether userID is listed in the loaded participants.
func (r *ChatRoom) HasParticipant(userID uint64) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}

	return false
}
