package chatauth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with one room and two users,
// the first being a participant.
func setupTestDB(t *testing.T) (*gorm.DB, models.ChatRoom, models.User, models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	member := models.User{Email: "member@x.com", Type: models.UserTypeAuthority}
	outsider := models.User{Email: "outsider@x.com", Type: models.UserTypeCitizen}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&outsider).Error)

	room := models.ChatRoom{Name: "ops"}
	require.NoError(t, db.Create(&room).Error)
	require.NoError(t, db.Create(&models.ChatRoomParticipant{ChatRoomID: room.ID, UserID: member.ID}).Error)

	return db, room, member, outsider
}

func TestRoom(t *testing.T) {
	db, room, member, _ := setupTestDB(t)
	svc := NewService(db, nil)

	got, err := svc.Room(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops", got.Name)
	assert.True(t, got.HasParticipant(member.ID))

	_, err = svc.Room(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "chat_room_not_found"))
}

func TestIsAuthorized(t *testing.T) {
	db, room, member, outsider := setupTestDB(t)
	admin := &models.User{ID: 77, Type: models.UserTypeAdmin}

	testCases := []struct {
		name   string
		policy Policy
		user   *models.User
		roomID uint64
		want   bool
	}{
		{name: "participant", user: &member, roomID: room.ID, want: true},
		{name: "not a participant", user: &outsider, roomID: room.ID, want: false},
		{name: "room does not exist", user: &member, roomID: 999, want: false},
		{name: "nil user", user: nil, roomID: room.ID, want: false},
		{
			name:   "privileged type",
			policy: AnyOf(ParticipantPolicy, UserTypePolicy(models.UserTypeAdmin)),
			user:   admin,
			roomID: room.ID,
			want:   true,
		},
		{
			name:   "privileged type but missing room",
			policy: AnyOf(ParticipantPolicy, UserTypePolicy(models.UserTypeAdmin)),
			user:   admin,
			roomID: 999,
			want:   false,
		},
		{
			name:   "panicking policy",
			policy: func(*models.User, *models.ChatRoom) bool { panic("boom") },
			user:   &member,
			roomID: room.ID,
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(db, tc.policy)

			assert.NotPanics(t, func() {
				assert.Equal(t, tc.want, svc.IsAuthorized(context.Background(), tc.user, tc.roomID))
			})
		})
	}
}

func TestIsAuthorizedCanceledContext(t *testing.T) {
	db, room, member, _ := setupTestDB(t)
	svc := NewService(db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, svc.IsAuthorized(ctx, &member, room.ID))

	_, err := svc.Room(ctx, room.ID)
	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
}

func TestPolicies(t *testing.T) {
	room := &models.ChatRoom{ID: 1, Participants: []models.ChatRoomParticipant{{ChatRoomID: 1, UserID: 5}}}
	member := &models.User{ID: 5, Type: models.UserTypeCitizen}
	stranger := &models.User{ID: 6, Type: models.UserTypeAuthority}

	assert.True(t, ParticipantPolicy(member, room))
	assert.False(t, ParticipantPolicy(stranger, room))

	byType := UserTypePolicy(models.UserTypeAuthority)
	assert.True(t, byType(stranger, room))
	assert.False(t, byType(member, room))

	assert.False(t, AnyOf()(member, room))
	assert.False(t, AnyOf(nil)(member, room))
	assert.True(t, AnyOf(nil, byType, ParticipantPolicy)(member, room))
}

func TestAllowsNilRoom(t *testing.T) {
	svc := NewService(nil, nil)
	assert.False(t, svc.Allows(&models.User{ID: 1}, nil))
}
