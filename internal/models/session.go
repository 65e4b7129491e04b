package models

import "time"

// DefaultBloomLevel is the label used when no valid Bloom code was given.
const DefaultBloomLevel = "Understand"

// SessionContext holds the learner's latest preferences for one session.
type SessionContext struct {
	CourseOutcomes string `json:"course_outcomes"`
	BloomLevel     string `json:"bloom_level"`
	Weightage      string `json:"weightage"`
	Language       string `json:"language"`
	VideoURL       string `json:"yt_url"`
	StudyMode      string `json:"study_mode"`
	VibeType       string `json:"vibe_type"`
}

func DefaultSessionContext() SessionContext {
	return SessionContext{
		BloomLevel: DefaultBloomLevel,
		StudyMode:  "normal",
		VibeType:   "default",
	}
}

type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Context   SessionContext `json:"context"`
	HasIndex  bool           `json:"has_index"`
	Segments  int            `json:"segments"`
	IndexedAt *time.Time     `json:"indexed_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
