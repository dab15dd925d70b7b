package store

import (
	"sync"

	"github.com/google/uuid"
)

// Friend is a participant identity as delivered by the identity service.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (f Friend) DisplayName() string {
	return f.FirstName + " " + f.LastName
}

// Conn is a live connection attached to a session. Enqueue must not block;
// it reports false when the peer's send buffer is full.
type Conn interface {
	Enqueue(frame []byte) bool
	CloseSend()
}

// Session is the live watch-party state for one session id. The identifier
// never changes. The connection set is process-local and is rebuilt from
// scratch whenever the record is rehydrated from the durable store.
type Session struct {
	ID           uuid.UUID
	MovieID      string
	Participants []string
	Friends      []Friend

	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewSession(id uuid.UUID, movieID string, participants []string, friends []Friend) *Session {
	return &Session{
		ID:           id,
		MovieID:      movieID,
		Participants: participants,
		Friends:      friends,
		conns:        make(map[Conn]struct{}),
	}
}

// FriendByID resolves a participant identity by its id.
func (s *Session) FriendByID(id string) (Friend, bool) {
	for _, f := range s.Friends {
		if f.ID == id {
			return f, true
		}
	}
	return Friend{}, false
}

func (s *Session) Attach(c Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) Detach(c Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// Conns returns a snapshot of the current connection set, so callers can
// fan out without holding the session lock across sends.
func (s *Session) Conns() []Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Conn, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c)
	}
	return out
}

func (s *Session) ConnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}
