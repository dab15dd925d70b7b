package entity

import (
	"time"

	"watch-party-be/pkg/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WatchSession is the durable projection of a session. Live connections are
// process-local and are never persisted.
type WatchSession struct {
	SessionID    uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"session_id"`
	Participants datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"participants"`
	Friends      datatypes.JSONSlice[store.Friend]  `gorm:"type:jsonb" json:"friends"`
	MovieID      string                             `gorm:"type:varchar(100);not null" json:"movie_id"`
	CreatedAt    time.Time                          `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WatchSession) TableName() string {
	return "watch_sessions"
}

// ToLive materializes a fresh in-memory session with an empty connection set.
func (w *WatchSession) ToLive() *store.Session {
	return store.NewSession(w.SessionID, w.MovieID, []string(w.Participants), []store.Friend(w.Friends))
}

// NewWatchSession builds the persisted form of a live session.
func NewWatchSession(s *store.Session) *WatchSession {
	return &WatchSession{
		SessionID:    s.ID,
		Participants: datatypes.NewJSONSlice(s.Participants),
		Friends:      datatypes.NewJSONSlice(s.Friends),
		MovieID:      s.MovieID,
		CreatedAt:    time.Now(),
	}
}
