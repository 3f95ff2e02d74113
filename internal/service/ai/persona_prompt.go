package ai

import (
	"fmt"
	"strings"

	"github.com/portfolio-chat/backend/internal/model/chat"
	"github.com/portfolio-chat/backend/internal/model/persona"
	"github.com/portfolio-chat/backend/internal/model/resume"
)

// PromptBuilder renders the persona prompt for a fixed persona and résumé.
type PromptBuilder struct {
	persona persona.Persona
	resume  *resume.Document
}

// NewPromptBuilder creates a builder; the résumé is loaded once at startup.
func NewPromptBuilder(p persona.Persona, doc *resume.Document) *PromptBuilder {
	return &PromptBuilder{persona: p, resume: doc}
}

// Greeting returns the canned assistant turn that follows the persona prompt.
func (b *PromptBuilder) Greeting() string {
	return b.persona.OpeningLine
}

// SeedTurns returns the two turns every new dialogue starts with.
func (b *PromptBuilder) SeedTurns(now DateTime) []chat.Turn {
	return []chat.Turn{
		{Role: chat.RoleUser, Text: b.BuildSystemPrompt(now)},
		{Role: chat.RoleAssistant, Text: b.Greeting()},
	}
}

// BuildSystemPrompt creates the persona prompt for the given instant.
func (b *PromptBuilder) BuildSystemPrompt(now DateTime) string {
	return BuildSystemPrompt(now, b.persona, b.resume)
}

// BuildSystemPrompt is deterministic for a given snapshot, persona and document.
func BuildSystemPrompt(now DateTime, p persona.Persona, doc *resume.Document) string {
	return fmt.Sprintf(`You are %s, %s.

CURRENT CONTEXT:
- Today's date: %s
- Current time: %s
- You are representing %s and %s professional portfolio

YOUR ROLE:
%s

RESUME DATA:
%s

GUIDELINES:
%s

Remember: You ARE %s (the AI version), not just talking about %s. Respond in first person when discussing the portfolio.`,
		p.Name,
		p.Title,
		now.Date,
		now.Time,
		p.Owner,
		p.Pronoun,
		bulletList(p.Role),
		doc.Indented(),
		bulletList(p.Guidelines),
		p.Name,
		objectPronoun(p.Pronoun),
	)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (none)"
	}
	return "- " + strings.Join(items, "\n- ")
}

func objectPronoun(possessive string) string {
	switch possessive {
	case "his":
		return "him"
	case "their":
		return "them"
	default:
		return possessive
	}
}
