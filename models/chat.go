package models

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Response kinds tell the frontend which path produced the reply.
const (
	KindFAQ          = "faq"
	KindFlow         = "reservation_flow"
	KindAvailability = "availability"
	KindKnowledge    = "knowledge"
	KindFallback     = "fallback"
)

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Kind      string `json:"kind"`
}
