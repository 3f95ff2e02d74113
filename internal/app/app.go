package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-chat/backend/internal/config"
	"github.com/portfolio-chat/backend/internal/model/persona"
	"github.com/portfolio-chat/backend/internal/model/resume"
	"github.com/portfolio-chat/backend/internal/service/ai"
	"github.com/portfolio-chat/backend/internal/service/chat"
)

// Title is the API name reported by the index route.
const Title = "Shamal's Portfolio Chatbot API"

// NewChatService loads the résumé, selects the provider and wires the session
// store behind a chat service. Any error is fatal at startup.
func NewChatService(ctx context.Context, cfg *config.Config) (*chat.Service, error) {
	doc, err := resume.Load(cfg.Resume.Path)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}

	provider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.AI.Provider, err)
	}

	store := chat.NewStore(provider, ai.NewPromptBuilder(persona.Default(), doc), chat.StoreConfig{
		MaxSessions: cfg.Session.MaxSessions,
		IdleTTL:     cfg.Session.IdleTTL,
	})

	logrus.WithFields(logrus.Fields{
		"provider":     provider.Name(),
		"resume":       cfg.Resume.Path,
		"max_sessions": cfg.Session.MaxSessions,
		"idle_ttl":     cfg.Session.IdleTTL.String(),
	}).Info("chat service initialized")

	return chat.NewService(store, chat.Options{
		Production: cfg.Production(),
		Timeout:    cfg.AI.Timeout,
	}), nil
}
