package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-chat/backend/internal/model/chat"
)

// EinoProvider runs dialogues through an eino chain over any chat model.
// The dialogue history lives in the Dialogue value, not in the model.
type EinoProvider struct {
	name  string
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewEinoProvider compiles the history + query chain for chatModel.
func NewEinoProvider(ctx context.Context, name string, chatModel model.BaseChatModel) (*EinoProvider, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	logrus.Infof("%s provider initialized", name)
	return &EinoProvider{name: name, chain: runnable}, nil
}

// Name implements Provider.
func (p *EinoProvider) Name() string {
	return p.name
}

// StartDialogue implements Provider.
func (p *EinoProvider) StartDialogue(_ context.Context, seed []chat.Turn) (Dialogue, error) {
	history := make([]*schema.Message, 0, len(seed)+8)
	for _, turn := range seed {
		history = append(history, toSchemaMessage(turn))
	}
	return &einoDialogue{chain: p.chain, history: history}, nil
}

type einoDialogue struct {
	chain compose.Runnable[map[string]any, *schema.Message]

	mu      sync.Mutex
	history []*schema.Message
}

func (d *einoDialogue) Send(ctx context.Context, text string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	input := map[string]any{
		"history": append([]*schema.Message(nil), d.history...),
		"query":   text,
	}

	response, err := d.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", fmt.Errorf("model returned empty text")
	}

	d.history = append(d.history, schema.UserMessage(text), schema.AssistantMessage(reply, nil))
	return reply, nil
}

// Len reports the number of turns held, seed included.
func (d *einoDialogue) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history)
}

func toSchemaMessage(turn chat.Turn) *schema.Message {
	if turn.Role == chat.RoleAssistant {
		return schema.AssistantMessage(turn.Text, nil)
	}
	return schema.UserMessage(turn.Text)
}
