package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store keeps sessions in memory with a sliding idle expiry.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &Store{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session and extends its expiry.
func (st *Store) Get(id string) (*Session, bool) {
	x, found := st.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	st.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// GetOrCreate returns the existing session for id or creates one. An empty id
// always creates a session with a new identifier.
func (st *Store) GetOrCreate(id string) *Session {
	if id == "" {
		id = NewID()
	}
	if s, ok := st.Get(id); ok {
		return s
	}
	s := newSession(id)
	if err := st.cache.Add(id, s, cache.DefaultExpiration); err != nil {
		// lost a creation race; use the winner
		if existing, ok := st.Get(id); ok {
			return existing
		}
	}
	return s
}

func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

func (st *Store) Count() int {
	return st.cache.ItemCount()
}

func (st *Store) TTL() time.Duration {
	return st.ttl
}
