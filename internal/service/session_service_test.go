package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/entity"
	"watch-party-be/internal/pkg/apperrors"
	"watch-party-be/internal/repository/memory"
	"watch-party-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeSessionStore struct {
	records   map[uuid.UUID]*entity.WatchSession
	createErr error
	loadErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{records: make(map[uuid.UUID]*entity.WatchSession)}
}

func (f *fakeSessionStore) Create(_ context.Context, record *entity.WatchSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[record.SessionID] = record
	return nil
}

func (f *fakeSessionStore) Load(_ context.Context, sessionID uuid.UUID) (*entity.WatchSession, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	record, ok := f.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	return record, nil
}

func testUser() *dto.AuthUserResponse {
	return &dto.AuthUserResponse{ID: "creator", Username: "creator", FirstName: "Carol", LastName: "Creator"}
}

func testFriends() []store.Friend {
	return []store.Friend{
		{ID: "a", Username: "alice", FirstName: "Alice", LastName: "Ng"},
		{ID: "b", Username: "bob", FirstName: "Bob", LastName: "Lee"},
	}
}

func TestCreatePersistsAndRegisters(t *testing.T) {
	fake := newFakeSessionStore()
	registry := memory.NewSessionRegistry()
	svc := NewSessionService(fake, registry, nil, nopLogger{})

	res, err := svc.Create(context.Background(), testUser(), testFriends(), &dto.CreateSessionRequest{
		SelectedParticipants: []string{"a", "b"},
		MovieID:              "movie-42",
	})
	require.NoError(t, err)

	// Caller is appended to the participant list.
	assert.Equal(t, []string{"a", "b", "creator"}, res.Participant)

	// Durable record matches the live session (minus connections).
	record, ok := fake.records[res.SessionID]
	require.True(t, ok)
	assert.Equal(t, "movie-42", record.MovieID)
	assert.Equal(t, []string{"a", "b", "creator"}, []string(record.Participants))
	assert.Len(t, record.Friends, 3)

	// Registered as live immediately.
	session, found := registry.Get(res.SessionID)
	require.True(t, found)
	assert.Equal(t, res.SessionID, session.ID)
	assert.Equal(t, 0, session.ConnCount())
}

func TestCreateStoreUnavailable(t *testing.T) {
	fake := newFakeSessionStore()
	fake.createErr = fmt.Errorf("session store unreachable: %w", apperrors.ErrUnavailable)
	registry := memory.NewSessionRegistry()
	svc := NewSessionService(fake, registry, nil, nopLogger{})

	_, err := svc.Create(context.Background(), testUser(), nil, &dto.CreateSessionRequest{
		SelectedParticipants: []string{"a"},
		MovieID:              "movie-42",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))

	// Nothing registered when the durable write fails.
	assert.Empty(t, registry.All())
}

func TestResolvePrefersRegistry(t *testing.T) {
	fake := newFakeSessionStore()
	registry := memory.NewSessionRegistry()
	svc := NewSessionService(fake, registry, nil, nopLogger{})

	session := store.NewSession(uuid.New(), "movie-42", []string{"a"}, nil)
	registry.Register(session)

	got, err := svc.Resolve(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestResolveFallsBackToStoreAfterRestart(t *testing.T) {
	fake := newFakeSessionStore()
	registry := memory.NewSessionRegistry()
	svc := NewSessionService(fake, registry, nil, nopLogger{})

	res, err := svc.Create(context.Background(), testUser(), testFriends(), &dto.CreateSessionRequest{
		SelectedParticipants: []string{"a", "b"},
		MovieID:              "movie-42",
	})
	require.NoError(t, err)

	// Simulate a process restart: the registry is gone, the store remains.
	restartedRegistry := memory.NewSessionRegistry()
	restarted := NewSessionService(fake, restartedRegistry, nil, nopLogger{})

	session, err := restarted.Resolve(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.SessionID, session.ID)
	assert.Equal(t, "movie-42", session.MovieID)
	assert.Equal(t, []string{"a", "b", "creator"}, session.Participants)

	// Rehydrated sessions start with an empty connection set.
	assert.Equal(t, 0, session.ConnCount())

	// A second resolve shares the same live object.
	again, err := restarted.Resolve(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Same(t, session, again)
}

func TestResolveNotFound(t *testing.T) {
	svc := NewSessionService(newFakeSessionStore(), memory.NewSessionRegistry(), nil, nopLogger{})

	_, err := svc.Resolve(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestResolveStoreUnavailable(t *testing.T) {
	fake := newFakeSessionStore()
	fake.loadErr = fmt.Errorf("session store unreachable: %w", apperrors.ErrUnavailable)
	svc := NewSessionService(fake, memory.NewSessionRegistry(), nil, nopLogger{})

	_, err := svc.Resolve(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))
}

func TestActiveSessions(t *testing.T) {
	fake := newFakeSessionStore()
	registry := memory.NewSessionRegistry()
	svc := NewSessionService(fake, registry, nil, nopLogger{})

	session := store.NewSession(uuid.New(), "movie-42", []string{"a"}, nil)
	registry.Register(session)

	active := svc.ActiveSessions()
	require.Len(t, active, 1)
	assert.Equal(t, session.ID, active[0].SessionID)
	assert.Equal(t, "movie-42", active[0].MovieID)
	assert.Equal(t, 0, active[0].Connections)
}
