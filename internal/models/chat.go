package models

// AskRequest is the payload sent to the ask endpoint.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries either the model's answer or the no-content advisory.
type AskResponse struct {
	Answer string `json:"answer"`
}

type ModeChangeRequest struct {
	StudyMode string `json:"study_mode"`
	VibeType  string `json:"vibe_type"`
}

// ModeChangeResponse echoes the persona actually applied after resolution.
type ModeChangeResponse struct {
	Message   string `json:"message"`
	StudyMode string `json:"study_mode"`
	VibeType  string `json:"vibe_type"`
	Language  string `json:"language"`
}
