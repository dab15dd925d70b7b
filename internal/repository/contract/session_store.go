package contract

import (
	"context"

	"watch-party-be/internal/entity"

	"github.com/google/uuid"
)

// SessionStore is the durable session record store. Load returns
// apperrors.ErrNotFound when no record exists and apperrors.ErrUnavailable
// when the backend cannot be reached; the two are never conflated.
type SessionStore interface {
	Create(ctx context.Context, record *entity.WatchSession) error
	Load(ctx context.Context, sessionID uuid.UUID) (*entity.WatchSession, error)
}
