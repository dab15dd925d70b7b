package service

import (
	"context"
	"time"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/pkg/logger"
	"watch-party-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IReconcilerService interface {
	// CatchUp computes the frames to replay privately to a connection that
	// just joined: zero or two playback frames and up to the configured
	// backlog of chat messages, oldest first. Cache failures never fail the
	// join; each half degrades to nothing independently.
	CatchUp(ctx context.Context, sessionID uuid.UUID) (playback []dto.CommandFrame, chat [][]byte)
}

type reconcilerService struct {
	playback contract.PlaybackStateCache
	chatlog  contract.ChatLogCache
	backlog  int
	logger   logger.ILogger
}

func NewReconcilerService(
	playback contract.PlaybackStateCache,
	chatlog contract.ChatLogCache,
	backlog int,
	log logger.ILogger,
) IReconcilerService {
	return &reconcilerService{
		playback: playback,
		chatlog:  chatlog,
		backlog:  backlog,
		logger:   log,
	}
}

func (r *reconcilerService) CatchUp(ctx context.Context, sessionID uuid.UUID) ([]dto.CommandFrame, [][]byte) {
	return r.playbackCatchUp(ctx, sessionID), r.chatCatchUp(ctx, sessionID)
}

func (r *reconcilerService) playbackCatchUp(ctx context.Context, sessionID uuid.UUID) []dto.CommandFrame {
	snapshot, err := r.playback.Snapshot(ctx, sessionID)
	if err != nil {
		r.logger.Warn("Reconciler", "Playback cache unavailable, skipping playback catch-up", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}
	if snapshot == nil || snapshot.CommandType == "" {
		return nil
	}

	// A session last seen playing has kept moving; project the stored
	// position forward by the wall-clock time since the command was issued.
	// Paused or seeked state is replayed as stored.
	effective := snapshot.Timestamp
	if snapshot.CommandType == dto.CommandPlay {
		effective += time.Since(snapshot.IssuedAt).Seconds()
	}

	return []dto.CommandFrame{
		{
			Type:        dto.FrameTypeCommand,
			CommandType: dto.CommandSeeked,
			Timestamp:   &effective,
		},
		{
			Type:        dto.FrameTypeCommand,
			CommandType: snapshot.CommandType,
		},
	}
}

func (r *reconcilerService) chatCatchUp(ctx context.Context, sessionID uuid.UUID) [][]byte {
	messages, err := r.chatlog.Recent(ctx, sessionID, r.backlog)
	if err != nil {
		r.logger.Warn("Reconciler", "Chat cache unavailable, skipping chat catch-up", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}
	return messages
}
