package ai

import (
	"context"
	"fmt"

	"github.com/portfolio-chat/backend/internal/config"
	"github.com/portfolio-chat/backend/internal/model/chat"
)

// Dialogue is a provider-held conversation. Send appends the message to the
// provider's history and returns the reply.
type Dialogue interface {
	Send(ctx context.Context, text string) (string, error)
}

// Provider opens dialogues seeded with prior turns.
type Provider interface {
	Name() string
	StartDialogue(ctx context.Context, seed []chat.Turn) (Dialogue, error)
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		p, err := NewEinoProvider(ctx, config.ProviderArk, chatModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
