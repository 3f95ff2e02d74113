package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/portfolio-chat/backend/internal/model/chat"
	"github.com/portfolio-chat/backend/internal/service/ai"
	"github.com/portfolio-chat/backend/internal/telemetry"
)

// Seeder produces the opening turns of a new dialogue.
type Seeder interface {
	SeedTurns(now ai.DateTime) []chat.Turn
}

// StoreConfig bounds the store. Zero values keep sessions forever.
type StoreConfig struct {
	MaxSessions int
	IdleTTL     time.Duration
	Clock       func() time.Time
}

// Session owns one provider dialogue. Turns on the same session are serialized.
type Session struct {
	ID         string
	DialogueID string
	CreatedAt  time.Time

	mu       sync.Mutex
	dialogue ai.Dialogue
	lastUsed time.Time
}

// Send forwards text to the provider dialogue.
func (s *Session) Send(ctx context.Context, text string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.dialogue.Send(ctx, text)
	if err != nil {
		return "", err
	}
	s.lastUsed = now
	return reply, nil
}

// LastUsed returns when the session last completed an exchange.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Store maps session ids to provider dialogues.
type Store struct {
	provider ai.Provider
	seeder   Seeder
	clock    func() time.Time

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	creating singleflight.Group
}

// NewStore creates an empty store.
func NewStore(provider ai.Provider, seeder Seeder, cfg StoreConfig) *Store {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	onEvict := func(id string, sess *Session) {
		logrus.WithFields(logrus.Fields{
			"session_id":  id,
			"dialogue_id": sess.DialogueID,
		}).Debug("session dropped from store")
	}

	return &Store{
		provider: provider,
		seeder:   seeder,
		clock:    clock,
		sessions: expirable.NewLRU[string, *Session](cfg.MaxSessions, onEvict, cfg.IdleTTL),
	}
}

type lookup struct {
	session *Session
	created bool
}

// GetOrCreate returns the session for id, opening a seeded dialogue on first
// use. Concurrent first calls for the same id share one creation.
func (s *Store) GetOrCreate(ctx context.Context, id string) (*Session, bool, error) {
	if sess, ok := s.sessions.Get(id); ok {
		return sess, false, nil
	}

	v, err, _ := s.creating.Do(id, func() (any, error) {
		if sess, ok := s.sessions.Get(id); ok {
			return lookup{session: sess}, nil
		}
		sess, err := s.create(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		return lookup{session: sess, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(lookup)
	return res.session, res.created, nil
}

func (s *Store) create(ctx context.Context, id string) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "chat.session.create",
		attribute.String("chat.session_id", id),
		attribute.String("ai.provider", s.provider.Name()),
	)

	now := s.clock()
	dialogue, err := s.provider.StartDialogue(ctx, s.seeder.SeedTurns(ai.Now(now)))
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("start dialogue: %w", err)
	}

	sess := &Session{
		ID:         id,
		DialogueID: uuid.NewString(),
		CreatedAt:  now,
		dialogue:   dialogue,
		lastUsed:   now,
	}

	s.mu.Lock()
	s.sessions.Add(id, sess)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id":  id,
		"dialogue_id": sess.DialogueID,
		"provider":    s.provider.Name(),
	}).Info("chat session created")
	return sess, nil
}

// Touch refreshes the idle deadline of sess if it is still the stored session.
func (s *Store) Touch(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.sessions.Peek(sess.ID); ok && cur == sess {
		s.sessions.Add(sess.ID, sess)
	}
}

// Remove deletes the session and reports whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions.Peek(id); !ok {
		return false
	}
	return s.sessions.Remove(id)
}

// ListIDs returns the live session ids in no guaranteed order.
func (s *Store) ListIDs() []string {
	return s.sessions.Keys()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return len(s.sessions.Keys())
}

// Clear drops every session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Purge()
}
