package models

type ProcessResponse struct {
	Message  string `json:"message"`
	Segments int    `json:"segments"`
}

type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// ErrorResponse is flat so clients can read the message from "error".
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}
