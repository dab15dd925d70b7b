package memory

import (
	"watch-party-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRegistry is the process-local map of live sessions. Entries never
// expire; the registry is authoritative only while the process is up and is
// rebuilt from the durable store after a restart.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Register inserts or overwrites the entry unconditionally.
func (r *SessionRegistry) Register(session *store.Session) {
	r.cache.Set(session.ID.String(), session, cache.NoExpiration)
}

func (r *SessionRegistry) Get(sessionID uuid.UUID) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// GetOrRegister registers the session unless another goroutine already
// materialized one for the same id, in which case the existing live
// session wins so all connections share a single object.
func (r *SessionRegistry) GetOrRegister(session *store.Session) *store.Session {
	if err := r.cache.Add(session.ID.String(), session, cache.NoExpiration); err != nil {
		if existing, found := r.Get(session.ID); found {
			return existing
		}
	}
	return session
}

// All snapshots every live session, in no particular order.
func (r *SessionRegistry) All() []*store.Session {
	items := r.cache.Items()
	out := make([]*store.Session, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*store.Session))
	}
	return out
}
