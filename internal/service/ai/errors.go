package ai

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Kind classifies provider failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindRateLimit
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// ProviderError is a provider failure with a known kind.
type ProviderError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "provider error: " + e.Kind.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Classify returns the kind of a provider error. Typed errors win; the text
// checks remain for providers that report failures only as messages.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr.Kind != KindUnknown {
		return perr.Kind
	}

	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuth
		case http.StatusTooManyRequests:
			return KindRateLimit
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "API key") {
		return KindAuth
	}
	if strings.Contains(strings.ToLower(msg), "quota") {
		return KindRateLimit
	}
	return KindUnknown
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
