package implementation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/pkg/apperrors"
	"watch-party-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache key layout, one namespace per concern so playback state and chat
// share no keys:
//
//	{session_id}:command  -> hash {commandType, timestamp, timestamp_action}
//	{session_id}:message  -> list of serialized chat messages
const (
	commandKeySuffix = ":command"
	messageKeySuffix = ":message"

	fieldCommandType  = "commandType"
	fieldTimestamp    = "timestamp"
	fieldIssuedAt     = "timestamp_action"
	issuedAtFormat    = time.RFC3339Nano
)

type RedisStateCache struct {
	rdb *redis.Client
}

func NewPlaybackStateCache(rdb *redis.Client) contract.PlaybackStateCache {
	return &RedisStateCache{rdb: rdb}
}

func NewChatLogCache(rdb *redis.Client) contract.ChatLogCache {
	return &RedisStateCache{rdb: rdb}
}

func commandKey(sessionID uuid.UUID) string {
	return sessionID.String() + commandKeySuffix
}

func messageKey(sessionID uuid.UUID) string {
	return sessionID.String() + messageKeySuffix
}

func (c *RedisStateCache) SaveCommand(ctx context.Context, sessionID uuid.UUID, commandType string, timestamp float64) error {
	key := commandKey(sessionID)
	ts := strconv.FormatFloat(timestamp, 'f', -1, 64)

	var err error
	switch commandType {
	case dto.CommandPlay, dto.CommandPause:
		err = c.rdb.HSet(ctx, key,
			fieldCommandType, commandType,
			fieldTimestamp, ts,
			fieldIssuedAt, time.Now().Format(issuedAtFormat),
		).Err()
	case dto.CommandSeeked:
		// Only the position moves; kind and issued-at keep their prior
		// values so play/pause state survives a seek.
		err = c.rdb.HSet(ctx, key, fieldTimestamp, ts).Err()
	default:
		return fmt.Errorf("command %q is not persisted: %w", commandType, apperrors.ErrValidation)
	}

	if err != nil {
		return unavailable("save command", err)
	}
	return nil
}

func (c *RedisStateCache) Snapshot(ctx context.Context, sessionID uuid.UUID) (*contract.PlaybackSnapshot, error) {
	fields, err := c.rdb.HGetAll(ctx, commandKey(sessionID)).Result()
	if err != nil {
		return nil, unavailable("read playback state", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	snapshot := &contract.PlaybackSnapshot{
		CommandType: fields[fieldCommandType],
	}
	if raw, ok := fields[fieldTimestamp]; ok {
		if ts, err := strconv.ParseFloat(raw, 64); err == nil {
			snapshot.Timestamp = ts
		}
	}
	if raw, ok := fields[fieldIssuedAt]; ok {
		if at, err := time.Parse(issuedAtFormat, raw); err == nil {
			snapshot.IssuedAt = at
		}
	}
	return snapshot, nil
}

func (c *RedisStateCache) Append(ctx context.Context, sessionID uuid.UUID, serialized []byte) error {
	if err := c.rdb.RPush(ctx, messageKey(sessionID), serialized).Err(); err != nil {
		return unavailable("append chat message", err)
	}
	return nil
}

func (c *RedisStateCache) Recent(ctx context.Context, sessionID uuid.UUID, count int) ([][]byte, error) {
	// LRange(0, -1) would return the whole list, not nothing.
	if count <= 0 {
		return nil, nil
	}

	entries, err := c.rdb.LRange(ctx, messageKey(sessionID), int64(-count), -1).Result()
	if err != nil {
		return nil, unavailable("read chat backlog", err)
	}

	out := make([][]byte, 0, len(entries))
	for _, entry := range entries {
		out = append(out, []byte(entry))
	}
	return out, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("state cache: %s: %v: %w", op, err, apperrors.ErrUnavailable)
}
