package chat_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/portfolio-chat/backend/internal/model/chat"
	"github.com/portfolio-chat/backend/internal/service/ai"
)

type fakeProvider struct {
	mu       sync.Mutex
	seeds    [][]chat.Turn
	sent     []string
	delay    time.Duration
	startErr error
	sendErr  error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) StartDialogue(_ context.Context, seed []chat.Turn) (ai.Dialogue, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.seeds = append(p.seeds, seed)
	return &fakeDialogue{provider: p}, nil
}

func (p *fakeProvider) started() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seeds)
}

func (p *fakeProvider) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sent...)
}

type fakeDialogue struct {
	provider *fakeProvider
}

func (d *fakeDialogue) Send(_ context.Context, text string) (string, error) {
	d.provider.mu.Lock()
	defer d.provider.mu.Unlock()
	if d.provider.sendErr != nil {
		return "", d.provider.sendErr
	}
	d.provider.sent = append(d.provider.sent, text)
	return fmt.Sprintf("reply to %s", text), nil
}

type staticSeeder struct{}

func (staticSeeder) SeedTurns(now ai.DateTime) []chat.Turn {
	return []chat.Turn{
		{Role: chat.RoleUser, Text: "persona prompt at " + now.Timestamp},
		{Role: chat.RoleAssistant, Text: "greeting"},
	}
}
