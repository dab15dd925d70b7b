package service

import (
	"context"
	"time"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/entity"
	"watch-party-be/internal/pkg/logger"
	"watch-party-be/internal/repository/contract"
	"watch-party-be/internal/repository/memory"
	"watch-party-be/pkg/events"
	pktNats "watch-party-be/pkg/nats"
	"watch-party-be/pkg/store"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, user *dto.AuthUserResponse, friends []store.Friend, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Resolve(ctx context.Context, sessionID uuid.UUID) (*store.Session, error)
	ActiveSessions() []*dto.ActiveSessionResponse
}

type sessionService struct {
	sessionStore contract.SessionStore
	registry     *memory.SessionRegistry
	publisher    *pktNats.Publisher
	logger       logger.ILogger
}

func NewSessionService(
	sessionStore contract.SessionStore,
	registry *memory.SessionRegistry,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionStore: sessionStore,
		registry:     registry,
		publisher:    publisher,
		logger:       log,
	}
}

// Create persists a new session and registers it as live. The durable write
// must succeed before the caller sees the session id; nothing is registered
// when it fails.
func (s *sessionService) Create(ctx context.Context, user *dto.AuthUserResponse, friends []store.Friend, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	participants := make([]string, 0, len(req.SelectedParticipants)+1)
	participants = append(participants, req.SelectedParticipants...)
	participants = append(participants, user.ID)

	roster := make([]store.Friend, 0, len(friends)+1)
	roster = append(roster, friends...)
	roster = append(roster, store.Friend{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})

	session := store.NewSession(uuid.New(), req.MovieID, participants, roster)

	if err := s.sessionStore.Create(ctx, entity.NewWatchSession(session)); err != nil {
		return nil, err
	}

	s.registry.Register(session)
	s.logger.Info("SessionService", "Session created", map[string]interface{}{
		"session_id": session.ID,
		"movie_id":   session.MovieID,
	})

	s.publishEvent(events.SessionCreated(session.ID.String(), session.MovieID, len(participants)))

	return &dto.CreateSessionResponse{
		SessionID:   session.ID,
		Participant: participants,
	}, nil
}

// Resolve returns the live session for an id. Registry first; on a miss the
// durable store record is materialized as a fresh session with an empty
// connection set. The materialized session is registered so concurrent
// joiners after a restart share one live object.
func (s *sessionService) Resolve(ctx context.Context, sessionID uuid.UUID) (*store.Session, error) {
	if session, found := s.registry.Get(sessionID); found {
		return session, nil
	}

	record, err := s.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("SessionService", "Session rehydrated from store", map[string]interface{}{
		"session_id": sessionID,
	})
	return s.registry.GetOrRegister(record.ToLive()), nil
}

func (s *sessionService) ActiveSessions() []*dto.ActiveSessionResponse {
	sessions := s.registry.All()
	out := make([]*dto.ActiveSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, &dto.ActiveSessionResponse{
			SessionID:    session.ID,
			MovieID:      session.MovieID,
			Participants: session.Participants,
			Connections:  session.ConnCount(),
		})
	}
	return out
}

func (s *sessionService) publishEvent(event events.BaseEvent) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("SessionService", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
