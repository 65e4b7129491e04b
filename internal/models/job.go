package models

// WebSocket message types
const (
	WSTypeStatusUpdate = "status_update"
	WSTypeCompleted    = "completed"
	WSTypeError        = "error"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	SessionID  string `json:"session_id"`
	Step       int    `json:"step"`
	TotalSteps int    `json:"total_steps"`
	StepName   string `json:"step_name"`
}

type CompletedEvent struct {
	SessionID string `json:"session_id"`
	Segments  int    `json:"segments"`
	Message   string `json:"message"`
}

type ErrorEvent struct {
	SessionID    string `json:"session_id"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}
