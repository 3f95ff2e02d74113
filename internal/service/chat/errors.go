package chat

import (
	"errors"
	"net/http"

	"github.com/portfolio-chat/backend/internal/service/ai"
)

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrAccessDenied    = errors.New("access denied")
)

// Failure is the client-facing description of an error.
type Failure struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Describe maps err to a status and a stable error body. Details are only
// exposed for unexpected provider failures when withDetails is set.
func Describe(err error, withDetails bool) Failure {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return Failure{Status: http.StatusBadRequest, Message: "Message is required"}
	case errors.Is(err, ErrSessionNotFound):
		return Failure{Status: http.StatusNotFound, Message: "Chat session not found"}
	case errors.Is(err, ErrAccessDenied):
		return Failure{Status: http.StatusForbidden, Message: "Access denied"}
	}

	switch ai.Classify(err) {
	case ai.KindAuth:
		return Failure{Status: http.StatusUnauthorized, Message: "Invalid or missing API key"}
	case ai.KindRateLimit:
		return Failure{Status: http.StatusTooManyRequests, Message: "API quota exceeded. Please try again later."}
	}

	failure := Failure{Status: http.StatusInternalServerError, Message: "Something went wrong. Please try again later."}
	if withDetails && err != nil {
		failure.Details = err.Error()
	}
	return failure
}
