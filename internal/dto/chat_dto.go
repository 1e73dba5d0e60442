package dto

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	Subject string `json:"subject"`
}

type ChatResponse struct {
	Response   string   `json:"response"`
	Confidence *float64 `json:"confidence,omitempty"`
	Subject    string   `json:"subject"`
}

// ChatErrorResponse matches what the assistant client expects on failure.
type ChatErrorResponse struct {
	Error string `json:"error"`
}

type AssistantMessageRequest struct {
	Message string `json:"message"`
}

type AssistantSubjectRequest struct {
	Subject string `json:"subject" validate:"required,oneof=chemistry biology"`
}
