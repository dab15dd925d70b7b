package bootstrap

import (
	"context"
	"log"

	"watch-party-be/internal/config"
	"watch-party-be/internal/controller"
	"watch-party-be/internal/pkg/identity"
	"watch-party-be/internal/pkg/logger"
	"watch-party-be/internal/repository/implementation"
	"watch-party-be/internal/repository/memory"
	"watch-party-be/internal/service"
	"watch-party-be/internal/websocket"
	pktNats "watch-party-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	SessionController controller.ISessionController

	ConnectionManager *websocket.Manager
	Logger            logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Redis (ephemeral state cache)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// NATS (session lifecycle events, best effort)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Repositories
	sessionStore := implementation.NewSessionStore(db)
	playbackCache := implementation.NewPlaybackStateCache(rdb)
	chatlogCache := implementation.NewChatLogCache(rdb)
	registry := memory.NewSessionRegistry()

	// Services
	sessionService := service.NewSessionService(sessionStore, registry, natsPub, sysLogger)
	reconciler := service.NewReconcilerService(playbackCache, chatlogCache, cfg.Replay.ChatBacklog, sysLogger)

	// Connection manager gets its own file-only log to keep the main
	// stream readable under chatty sessions.
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	manager := websocket.NewManager(reconciler, playbackCache, chatlogCache, natsPub, wsLogger)

	identityClient := identity.NewClient(cfg.Identity.VerifyTokenURL, cfg.Identity.FriendsURL)

	return &Container{
		SessionController: controller.NewSessionController(sessionService, manager, identityClient),
		ConnectionManager: manager,
		Logger:            sysLogger,
	}
}
