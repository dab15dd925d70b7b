package implementation

import (
	"context"
	"errors"
	"fmt"
	"net"

	"watch-party-be/internal/entity"
	"watch-party-be/internal/pkg/apperrors"
	"watch-party-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type SessionStoreImpl struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) contract.SessionStore {
	return &SessionStoreImpl{db: db}
}

func (r *SessionStoreImpl) Create(ctx context.Context, record *entity.WatchSession) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return classifyWriteError(err)
	}
	return nil
}

func (r *SessionStoreImpl) Load(ctx context.Context, sessionID uuid.UUID) (*entity.WatchSession, error) {
	var record entity.WatchSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
		}
		return nil, classifyWriteError(err)
	}
	return &record, nil
}

// classifyWriteError separates a backend that cannot be reached (retryable,
// 503) from a persistence error inside a reachable backend (500).
func classifyWriteError(err error) error {
	if isUnreachable(err) {
		return fmt.Errorf("session store unreachable: %w", apperrors.ErrUnavailable)
	}
	return fmt.Errorf("session store: %v: %w", err, apperrors.ErrInternal)
}

func isUnreachable(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
