package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/portfolio-chat/backend/internal/model/chat"
	"github.com/portfolio-chat/backend/internal/service/ai"
	"github.com/portfolio-chat/backend/internal/telemetry"
	"github.com/portfolio-chat/backend/pkg/validator"
)

// Options tune the request handler.
type Options struct {
	// Production hides the session listing.
	Production bool
	// Timeout bounds each provider call; zero leaves it unbounded.
	Timeout time.Duration
	Clock   func() time.Time
}

// Service handles chat requests against the session store.
type Service struct {
	store    *Store
	validate validator.Validator
	opts     Options
}

// NewService wires the request handler to an explicitly owned store.
func NewService(store *Store, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		opts:     opts,
	}
}

// Chat validates the request, resolves its session and forwards the message.
func (s *Service) Chat(ctx context.Context, req chat.Request) (chat.Exchange, error) {
	if err := s.validate.ValidateStruct(req); err != nil {
		return chat.Exchange{}, fmt.Errorf("%w: %v", ErrEmptyMessage, err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}
	now := ai.Now(s.opts.Clock())

	sess, created, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return chat.Exchange{}, err
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	ctx, span := telemetry.StartSpan(ctx, "chat.send",
		attribute.String("chat.session_id", sessionID),
		attribute.Bool("chat.session_created", created),
		attribute.Int("chat.message_length", len(req.Message)),
	)
	reply, err := sess.Send(ctx, req.Message, s.opts.Clock())
	telemetry.EndSpan(span, err)
	if err != nil {
		return chat.Exchange{}, err
	}
	s.store.Touch(sess)

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"reply_len":  len(reply),
	}).Debug("chat reply generated")

	return chat.Exchange{
		Message:   req.Message,
		Reply:     reply,
		SessionID: sessionID,
		Timestamp: now.Timestamp,
	}, nil
}

// ClearSession removes one session.
func (s *Service) ClearSession(sessionID string) error {
	if !s.store.Remove(sessionID) {
		return ErrSessionNotFound
	}
	logrus.WithField("session_id", sessionID).Info("chat session cleared")
	return nil
}

// Sessions lists active session ids outside production.
func (s *Service) Sessions() ([]string, error) {
	if s.opts.Production {
		return nil, ErrAccessDenied
	}
	return s.store.ListIDs(), nil
}

// Now returns a formatted snapshot of the service clock.
func (s *Service) Now() ai.DateTime {
	return ai.Now(s.opts.Clock())
}

// Shutdown drops every session.
func (s *Service) Shutdown() {
	n := s.store.Len()
	s.store.Clear()
	logrus.Infof("cleared %d chat sessions", n)
}
