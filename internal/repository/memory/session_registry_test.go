package memory

import (
	"testing"

	"watch-party-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestSession() *store.Session {
	return store.NewSession(uuid.New(), "movie-42", []string{"u1", "u2"}, nil)
}

func TestRegisterAndGet(t *testing.T) {
	registry := NewSessionRegistry()
	session := newTestSession()

	_, found := registry.Get(session.ID)
	assert.False(t, found)

	registry.Register(session)

	got, found := registry.Get(session.ID)
	assert.True(t, found)
	assert.Same(t, session, got)
}

func TestRegisterOverwrites(t *testing.T) {
	registry := NewSessionRegistry()
	first := newTestSession()
	second := store.NewSession(first.ID, "movie-43", []string{"u3"}, nil)

	registry.Register(first)
	registry.Register(second)

	got, found := registry.Get(first.ID)
	assert.True(t, found)
	assert.Same(t, second, got)
}

func TestGetOrRegisterKeepsExisting(t *testing.T) {
	registry := NewSessionRegistry()
	existing := newTestSession()
	registry.Register(existing)

	duplicate := store.NewSession(existing.ID, existing.MovieID, existing.Participants, nil)
	got := registry.GetOrRegister(duplicate)

	// The already-live object wins so every connection shares one session.
	assert.Same(t, existing, got)
}

func TestGetOrRegisterInsertsWhenAbsent(t *testing.T) {
	registry := NewSessionRegistry()
	session := newTestSession()

	got := registry.GetOrRegister(session)
	assert.Same(t, session, got)

	stored, found := registry.Get(session.ID)
	assert.True(t, found)
	assert.Same(t, session, stored)
}

func TestAll(t *testing.T) {
	registry := NewSessionRegistry()
	a := newTestSession()
	b := newTestSession()
	registry.Register(a)
	registry.Register(b)

	sessions := registry.All()
	assert.Len(t, sessions, 2)
	assert.Contains(t, sessions, a)
	assert.Contains(t, sessions, b)
}
