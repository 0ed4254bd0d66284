// ABOUTME: Conversation title derivation and AI synthesis
// ABOUTME: Short exchanges get a truncated first message, longer ones a summarized title

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/innotech/consulta-gateway/internal/llm"
	"github.com/innotech/consulta-gateway/internal/store"
)

// DefaultTitle names a conversation with no usable first message.
const DefaultTitle = "Nueva conversación"

const (
	titleMaxRunes       = 50
	titleMinMessages    = 3
	titleContextLimit   = 6
	titleTemperature    = 0.3
	titleMaxTokens      = 30
	titleSystemPrompt   = `Genera un título conciso (máximo 50 caracteres) que resuma el tema principal de esta conversación de consultoría empresarial.

Debe ser:
- Específico y descriptivo
- Enfocado en el problema/tema central
- Profesional y claro
- Sin comillas ni puntos finales

Ejemplos buenos: "Estrategia de pricing para PyME", "Optimización de flujo de caja", "Plan de marketing digital", "Estructura SRL vs SA"`
)

// DeriveTitle builds a title from the first user message, truncated to
// 50 runes with a trailing ellipsis when cut. Empty input yields
// DefaultTitle.
func DeriveTitle(firstUserMessage string) string {
	title := strings.TrimSpace(firstUserMessage)
	if title == "" {
		return DefaultTitle
	}
	runes := []rune(title)
	if len(runes) <= titleMaxRunes {
		return title
	}
	return string(runes[:titleMaxRunes-1]) + "…"
}

// SynthesizeTitle produces a summarized title for the conversation once
// it has at least three messages, asking the completion API to condense
// the opening exchange. Shorter conversations, and any upstream failure,
// fall back to the derived title. The returned source is one of
// store.TitleSourceDerived or store.TitleSourceSynthesized.
func (s *Service) SynthesizeTitle(ctx context.Context, messages []store.Message) (string, string) {
	derived := DeriveTitle(firstUserContent(messages))

	if len(messages) < titleMinMessages {
		return derived, store.TitleSourceDerived
	}

	window := messages
	if len(window) > titleContextLimit {
		window = window[:titleContextLimit]
	}
	var transcript strings.Builder
	transcript.WriteString("Conversación a titular:\n\n")
	for _, msg := range window {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Role, msg.Content)
	}

	answer, err := s.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: titleSystemPrompt},
		{Role: "user", Content: transcript.String()},
	}, llm.Options{
		Temperature: titleTemperature,
		MaxTokens:   titleMaxTokens,
	})
	if err != nil {
		s.logger.Debug("title synthesis failed, keeping derived title", "error", err)
		return derived, store.TitleSourceDerived
	}

	title := strings.Trim(strings.TrimSpace(answer), `"'`)
	if title == "" {
		return derived, store.TitleSourceDerived
	}
	if runes := []rune(title); len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes])
	}
	return title, store.TitleSourceSynthesized
}

// firstUserContent returns the content of the first user message, or
// the first message of any role when none exists.
func firstUserContent(messages []store.Message) string {
	for _, msg := range messages {
		if msg.Role == store.RoleUser {
			return msg.Content
		}
	}
	if len(messages) > 0 {
		return messages[0].Content
	}
	return ""
}
