package ai

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/portfolio-chat/backend/internal/config"
	"github.com/portfolio-chat/backend/internal/model/chat"
)

// MockProvider answers without calling a model, for local runs without credentials.
type MockProvider struct {
	started atomic.Int64
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name implements Provider.
func (p *MockProvider) Name() string {
	return config.ProviderMock
}

// StartDialogue implements Provider.
func (p *MockProvider) StartDialogue(_ context.Context, seed []chat.Turn) (Dialogue, error) {
	p.started.Add(1)
	if len(seed) == 0 {
		return nil, fmt.Errorf("mock dialogue requires seed turns")
	}
	return &mockDialogue{}, nil
}

// Started returns how many dialogues were opened.
func (p *MockProvider) Started() int64 {
	return p.started.Load()
}

type mockDialogue struct {
	exchanges atomic.Int64
}

func (d *mockDialogue) Send(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n := d.exchanges.Add(1)
	return fmt.Sprintf("I hear you. You said %q. (exchange %d, running without a model)", text, n), nil
}
