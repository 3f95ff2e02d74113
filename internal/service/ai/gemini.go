package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/portfolio-chat/backend/internal/config"
	"github.com/portfolio-chat/backend/internal/model/chat"
)

// GeminiProvider opens Gemini chat sessions.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	genConfig *genai.GenerateContentConfig
	// authErr is set when no API key is configured; every dialogue fails with it.
	authErr error
}

// NewGeminiProvider creates a Gemini API client from the AI config. A missing
// key does not fail startup: each request is answered with an auth error.
func NewGeminiProvider(ctx context.Context, cfg config.AIConfig) (*GeminiProvider, error) {
	if cfg.GeminiAPIKey == "" {
		logrus.Warn("GEMINI_API_KEY is not set, chat requests will be rejected as unauthorized")
		return &GeminiProvider{
			modelName: cfg.GeminiModel,
			authErr:   &ProviderError{Kind: KindAuth, Message: "Invalid or missing API key: GEMINI_API_KEY is not set"},
		}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	temp := float32(cfg.Temperature)
	topP := float32(cfg.TopP)
	topK := float32(cfg.TopK)

	logrus.Infof("gemini provider initialized with model %s", cfg.GeminiModel)

	return &GeminiProvider{
		client:    client,
		modelName: cfg.GeminiModel,
		genConfig: &genai.GenerateContentConfig{
			Temperature:     &temp,
			TopP:            &topP,
			TopK:            &topK,
			MaxOutputTokens: int32(cfg.MaxTokens),
		},
	}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string {
	return config.ProviderGemini
}

// StartDialogue implements Provider.
func (p *GeminiProvider) StartDialogue(ctx context.Context, seed []chat.Turn) (Dialogue, error) {
	if p.authErr != nil {
		return nil, p.authErr
	}

	history := make([]*genai.Content, 0, len(seed))
	for _, turn := range seed {
		history = append(history, genai.NewContentFromText(turn.Text, geminiRole(turn.Role)))
	}

	session, err := p.client.Chats.Create(ctx, p.modelName, p.genConfig, history)
	if err != nil {
		return nil, fmt.Errorf("gemini start chat: %w", err)
	}
	return &geminiDialogue{chat: session}, nil
}

type geminiDialogue struct {
	chat *genai.Chat
}

func (d *geminiDialogue) Send(ctx context.Context, text string) (string, error) {
	res, err := d.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini send message: %w", err)
	}

	reply := strings.TrimSpace(res.Text())
	if reply == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return reply, nil
}

func geminiRole(role chat.Role) genai.Role {
	if role == chat.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
