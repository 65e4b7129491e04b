package session

import (
	"sync"
	"time"

	"examprep-backend/internal/models"
	"examprep-backend/internal/retrieval"
)

// Session is the state of one learner conversation. The index pointer is
// only ever swapped whole, never mutated.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	context   models.SessionContext
	index     *retrieval.Index
	indexedAt time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		context:   models.DefaultSessionContext(),
	}
}

// SetContentPreferences overwrites every content field. Persona fields are
// left as they are.
func (s *Session) SetContentPreferences(outcomes, bloomCode, weightage, language, videoURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context.CourseOutcomes = outcomes
	s.context.BloomLevel = ResolveBloomLevel(bloomCode)
	s.context.Weightage = weightage
	s.context.Language = language
	s.context.VideoURL = videoURL
}

func (s *Session) SetPersona(mode, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context.StudyMode = mode
	s.context.VibeType = variant
}

// ReplaceIndex makes idx the only searchable index of the session.
func (s *Session) ReplaceIndex(idx *retrieval.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	s.indexedAt = time.Now()
}

// Snapshot is a consistent view of a session for the duration of one request.
type Snapshot struct {
	ID        string
	Context   models.SessionContext
	Index     *retrieval.Index
	IndexedAt time.Time
	CreatedAt time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:        s.ID,
		Context:   s.context,
		Index:     s.index,
		IndexedAt: s.indexedAt,
		CreatedAt: s.CreatedAt,
	}
}

func (snap Snapshot) HasIndex() bool {
	return snap.Index != nil
}

func (snap Snapshot) Response() models.SessionResponse {
	resp := models.SessionResponse{
		SessionID: snap.ID,
		Context:   snap.Context,
		HasIndex:  snap.HasIndex(),
		CreatedAt: snap.CreatedAt,
	}
	if snap.Index != nil {
		resp.Segments = snap.Index.Len()
		at := snap.IndexedAt
		resp.IndexedAt = &at
	}
	return resp
}
