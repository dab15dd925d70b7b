package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlaybackSnapshot is the last persisted playback command for a session.
type PlaybackSnapshot struct {
	CommandType string
	Timestamp   float64
	IssuedAt    time.Time
}

// PlaybackStateCache stores the last playback command per session,
// last-write-wins. A "seeked" command overwrites only the timestamp field;
// the previously stored kind and issued-at instant stay untouched.
type PlaybackStateCache interface {
	// SaveCommand persists a play/pause/seeked command. Any transport
	// failure surfaces as apperrors.ErrUnavailable.
	SaveCommand(ctx context.Context, sessionID uuid.UUID, commandType string, timestamp float64) error

	// Snapshot returns (nil, nil) when nothing was ever stored for the
	// session; absence is not an error.
	Snapshot(ctx context.Context, sessionID uuid.UUID) (*PlaybackSnapshot, error)
}

// ChatLogCache is the append-only recent-chat log per session. The log is
// not capped at write time; the replay window is applied at read time.
type ChatLogCache interface {
	Append(ctx context.Context, sessionID uuid.UUID, serialized []byte) error

	// Recent returns up to count entries in chronological order, oldest
	// of the window first. An empty log yields an empty slice, not an error.
	Recent(ctx context.Context, sessionID uuid.UUID, count int) ([][]byte, error)
}
