package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassifyMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"api key", errors.New("400 API key not valid. Please pass a valid API key."), KindAuth},
		{"api key lowercase is not auth", errors.New("invalid api key"), KindUnknown},
		{"quota", errors.New("429 Resource has been exhausted (e.g. check quota)."), KindRateLimit},
		{"quota upper case", errors.New("QUOTA exceeded"), KindRateLimit},
		{"quota mixed case", errors.New("Daily Quota reached"), KindRateLimit},
		{"api key wins over quota", errors.New("API key over quota"), KindAuth},
		{"wrapped", fmt.Errorf("gemini send message: %w", errors.New("quota exceeded")), KindRateLimit},
		{"other", errors.New("connection reset by peer"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestClassifyTypedErrors(t *testing.T) {
	typed := &ProviderError{Kind: KindRateLimit, Message: "slow down"}
	assert.Equal(t, KindRateLimit, Classify(fmt.Errorf("wrap: %w", typed)))

	auth := genai.APIError{Code: 401, Message: "unauthenticated"}
	assert.Equal(t, KindAuth, Classify(fmt.Errorf("gemini: %w", auth)))

	limited := genai.APIError{Code: 429, Message: "Resource exhausted"}
	assert.Equal(t, KindRateLimit, Classify(limited))

	server := genai.APIError{Code: 500, Message: "internal"}
	assert.Equal(t, KindUnknown, Classify(server))
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ProviderError{Kind: KindUnknown, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Error())
}
