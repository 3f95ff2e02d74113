package chat_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/portfolio-chat/backend/internal/model/chat"
	"github.com/portfolio-chat/backend/internal/service/ai"
	chatservice "github.com/portfolio-chat/backend/internal/service/chat"
)

var fixedNow = time.Date(2026, time.October, 19, 10, 15, 0, 0, time.UTC)

func newService(provider ai.Provider, opts chatservice.Options) *chatservice.Service {
	opts.Clock = func() time.Time { return fixedNow }
	store := chatservice.NewStore(provider, staticSeeder{}, chatservice.StoreConfig{Clock: opts.Clock})
	return chatservice.NewService(store, opts)
}

func TestServiceChatCreatesThenReusesSession(t *testing.T) {
	provider := &fakeProvider{}
	svc := newService(provider, chatservice.Options{})
	ctx := context.Background()

	exchange, err := svc.Chat(ctx, chat.Request{Message: "What do you work on?", SessionID: "visitor-42"})
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if exchange.SessionID != "visitor-42" {
		t.Fatalf("unexpected session id: %s", exchange.SessionID)
	}
	if exchange.Reply != "reply to What do you work on?" {
		t.Fatalf("unexpected reply: %s", exchange.Reply)
	}
	if exchange.Timestamp != ai.Now(fixedNow).Timestamp {
		t.Fatalf("unexpected timestamp: %s", exchange.Timestamp)
	}

	if _, err := svc.Chat(ctx, chat.Request{Message: "And before that?", SessionID: "visitor-42"}); err != nil {
		t.Fatalf("second Chat err: %v", err)
	}

	if got := provider.started(); got != 1 {
		t.Fatalf("expected one dialogue, got %d", got)
	}
	if got := provider.messages(); len(got) != 2 {
		t.Fatalf("expected two forwarded messages, got %v", got)
	}
}

func TestServiceChatDefaultsSessionID(t *testing.T) {
	svc := newService(&fakeProvider{}, chatservice.Options{})

	exchange, err := svc.Chat(context.Background(), chat.Request{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if exchange.SessionID != chat.DefaultSessionID {
		t.Fatalf("expected default session id, got %s", exchange.SessionID)
	}
}

func TestServiceChatRejectsBlankMessages(t *testing.T) {
	provider := &fakeProvider{}
	svc := newService(provider, chatservice.Options{})

	for _, msg := range []string{"", "   ", "\n\t"} {
		for _, sessionID := range []string{"", "visitor"} {
			_, err := svc.Chat(context.Background(), chat.Request{Message: msg, SessionID: sessionID})
			if !errors.Is(err, chatservice.ErrEmptyMessage) {
				t.Fatalf("message %q: expected ErrEmptyMessage, got %v", msg, err)
			}
			if f := chatservice.Describe(err, false); f.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", f.Status)
			}
		}
	}

	if provider.started() != 0 || len(provider.messages()) != 0 {
		t.Fatal("blank messages must not reach the provider")
	}
}

func TestServiceChatProviderFailures(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.New("400 API key not valid"), http.StatusUnauthorized},
		{errors.New("Resource exhausted: QUOTA"), http.StatusTooManyRequests},
		{errors.New("upstream connect error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		svc := newService(&fakeProvider{sendErr: tc.err}, chatservice.Options{})
		_, err := svc.Chat(context.Background(), chat.Request{Message: "hi", SessionID: "s"})
		if err == nil {
			t.Fatalf("expected error for %v", tc.err)
		}
		if got := chatservice.Describe(err, false).Status; got != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, got)
		}
	}
}

func TestServiceChatCreationFailure(t *testing.T) {
	svc := newService(&fakeProvider{startErr: errors.New("quota exceeded")}, chatservice.Options{})

	_, err := svc.Chat(context.Background(), chat.Request{Message: "hi"})
	if got := chatservice.Describe(err, false).Status; got != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d (%v)", got, err)
	}
}

type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) StartDialogue(context.Context, []chat.Turn) (ai.Dialogue, error) {
	return blockingDialogue{}, nil
}

type blockingDialogue struct{}

func (blockingDialogue) Send(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestServiceChatProviderTimeout(t *testing.T) {
	svc := newService(blockingProvider{}, chatservice.Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Chat(context.Background(), chat.Request{Message: "hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got := chatservice.Describe(err, false).Status; got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
}

func TestServiceClearSession(t *testing.T) {
	svc := newService(&fakeProvider{}, chatservice.Options{})
	ctx := context.Background()

	if _, err := svc.Chat(ctx, chat.Request{Message: "hi", SessionID: "gone"}); err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if err := svc.ClearSession("gone"); err != nil {
		t.Fatalf("ClearSession err: %v", err)
	}

	ids, err := svc.Sessions()
	if err != nil {
		t.Fatalf("Sessions err: %v", err)
	}
	for _, id := range ids {
		if id == "gone" {
			t.Fatal("cleared session still listed")
		}
	}

	if err := svc.ClearSession("gone"); !errors.Is(err, chatservice.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceSessionsHiddenInProduction(t *testing.T) {
	svc := newService(&fakeProvider{}, chatservice.Options{Production: true})

	if _, err := svc.Sessions(); !errors.Is(err, chatservice.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestDescribeDetails(t *testing.T) {
	err := errors.New("socket hang up")

	if f := chatservice.Describe(err, false); f.Details != "" {
		t.Fatalf("details must be hidden, got %q", f.Details)
	}
	if f := chatservice.Describe(err, true); f.Details != "socket hang up" {
		t.Fatalf("expected details, got %q", f.Details)
	}
	if f := chatservice.Describe(errors.New("quota"), true); f.Details != "" {
		t.Fatalf("details are only for generic failures, got %q", f.Details)
	}
}
