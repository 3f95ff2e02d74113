package chat

// DefaultSessionID is used when the caller omits a session id.
const DefaultSessionID = "default"

// Request is one inbound chat message.
type Request struct {
	Message   string `json:"message" validate:"notblank"`
	SessionID string `json:"session_id"`
}

// Exchange is the ephemeral result of a single request/response cycle.
type Exchange struct {
	Message   string `json:"-"`
	Reply     string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}
