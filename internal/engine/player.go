package engine

import (
	"sync"
)

// Player binds a user-facing name to a token, a session, and a dog
// within that session. Its lifetime runs from Join until retirement is
// observed and persisted.
type Player struct {
	ID            int64
	UserName      string
	Token         string
	SessionID     string
	DogID         int64
	PlayingTimeMs int64
	StoppedTimeMs int64
}

// PlayerRegistry indexes players by token, the one-to-one mapping
// clients authenticate through: a mutex-guarded map keyed by a stable
// string id, with CRUD methods instead of exposed locking.
type PlayerRegistry struct {
	mu      sync.RWMutex
	byToken map[string]*Player
	nextID  int64
}

// NewPlayerRegistry creates an empty registry.
func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{byToken: make(map[string]*Player)}
}

// Add indexes a newly created player by its token. The caller supplies
// everything except the id, which the registry assigns monotonically.
func (r *PlayerRegistry) Add(userName, token, sessionID string, dogID int64) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p := &Player{
		ID:        r.nextID,
		UserName:  userName,
		Token:     token,
		SessionID: sessionID,
		DogID:     dogID,
	}
	r.byToken[token] = p
	return p
}

// ByToken looks up a player by bearer token. Returns nil if no such
// player exists (either never joined, or already retired).
func (r *PlayerRegistry) ByToken(token string) *Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byToken[token]
}

// Remove evicts a player from the registry, e.g. after retirement.
func (r *PlayerRegistry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
}

// All returns every currently registered player. The returned slice is a
// snapshot copy of the pointers; callers must not assume it stays live.
func (r *PlayerRegistry) All() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, 0, len(r.byToken))
	for _, p := range r.byToken {
		out = append(out, p)
	}
	return out
}

// OnMap returns every player whose SessionID matches the given session.
func (r *PlayerRegistry) OnMap(sessionID string) []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Player
	for _, p := range r.byToken {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out
}
