package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/repository/implementation"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateCache(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	playback := implementation.NewPlaybackStateCache(rdb)
	chatlog := implementation.NewChatLogCache(rdb)

	sessionID := uuid.New()
	t.Cleanup(func() {
		rdb.Del(ctx, sessionID.String()+":command", sessionID.String()+":message")
	})

	t.Run("Empty session has no snapshot", func(t *testing.T) {
		snapshot, err := playback.Snapshot(ctx, sessionID)
		assert.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("Play then seeked keeps play state", func(t *testing.T) {
		require.NoError(t, playback.SaveCommand(ctx, sessionID, dto.CommandPlay, 100))
		require.NoError(t, playback.SaveCommand(ctx, sessionID, dto.CommandSeeked, 400))

		snapshot, err := playback.Snapshot(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, dto.CommandPlay, snapshot.CommandType)
		assert.Equal(t, float64(400), snapshot.Timestamp)
		assert.False(t, snapshot.IssuedAt.IsZero())
	})

	t.Run("Chat backlog keeps the newest entries in order", func(t *testing.T) {
		for i := 0; i < 15; i++ {
			require.NoError(t, chatlog.Append(ctx, sessionID, []byte{byte('a' + i)}))
		}

		recent, err := chatlog.Recent(ctx, sessionID, 10)
		require.NoError(t, err)
		require.Len(t, recent, 10)
		assert.Equal(t, "f", string(recent[0]))
		assert.Equal(t, "o", string(recent[9]))
	})
}
