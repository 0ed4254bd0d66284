// ABOUTME: Tests for title derivation and AI synthesis
// ABOUTME: Verifies truncation, the three-message threshold, and silent fallback

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innotech/consulta-gateway/internal/store"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short message kept", "¿Cómo optimizar mi flujo de caja?", "¿Cómo optimizar mi flujo de caja?"},
		{"whitespace trimmed", "  hola  ", "hola"},
		{"empty falls back", "", DefaultTitle},
		{"blank falls back", "   ", DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.input))
		})
	}
}

func TestDeriveTitleTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 80)
	title := DeriveTitle(long)
	assert.Equal(t, titleMaxRunes, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "…"))

	// multibyte input must be cut at rune boundaries
	accented := strings.Repeat("é", 80)
	title = DeriveTitle(accented)
	assert.Equal(t, titleMaxRunes, len([]rune(title)))
}

func TestSynthesizeTitleShortConversationSkipsAPI(t *testing.T) {
	completer := &stubCompleter{err: errors.New("must not be called")}
	svc := newTestService(completer)

	title, source := svc.SynthesizeTitle(context.Background(), []store.Message{
		{Role: store.RoleUser, Content: "¿Conviene monotributo?"},
		{Role: store.RoleAssistant, Content: "Depende de tu facturación."},
	})
	assert.Equal(t, "¿Conviene monotributo?", title)
	assert.Equal(t, store.TitleSourceDerived, source)
	assert.Zero(t, completer.calls)
}

func TestSynthesizeTitleSummarizesLongConversation(t *testing.T) {
	completer := &stubCompleter{reply: `"Optimización de flujo de caja"`}
	svc := newTestService(completer)

	messages := []store.Message{
		{Role: store.RoleUser, Content: "¿Cómo optimizar mi flujo de caja?"},
		{Role: store.RoleAssistant, Content: "Contame sobre tus ingresos."},
		{Role: store.RoleUser, Content: "Facturo 2 millones por mes."},
	}
	title, source := svc.SynthesizeTitle(context.Background(), messages)

	assert.Equal(t, "Optimización de flujo de caja", title)
	assert.Equal(t, store.TitleSourceSynthesized, source)

	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, "user: ¿Cómo optimizar mi flujo de caja?")
	assert.InDelta(t, 0.3, completer.opts.Temperature, 0.001)
	assert.Equal(t, 30, completer.opts.MaxTokens)
}

func TestSynthesizeTitleLimitsContextWindow(t *testing.T) {
	completer := &stubCompleter{reply: "Plan de marketing digital"}
	svc := newTestService(completer)

	var messages []store.Message
	for i := 0; i < 10; i++ {
		role := store.RoleUser
		if i%2 == 1 {
			role = store.RoleAssistant
		}
		messages = append(messages, store.Message{Role: role, Content: strings.Repeat("m", i+1)})
	}
	_, _ = svc.SynthesizeTitle(context.Background(), messages)

	transcript := completer.messages[1].Content
	assert.Contains(t, transcript, "mmmmmm")
	assert.NotContains(t, transcript, "mmmmmmm")
}

func TestSynthesizeTitleFallsBackOnFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("overloaded")}
	svc := newTestService(completer)

	messages := []store.Message{
		{Role: store.RoleUser, Content: "Estrategia de pricing"},
		{Role: store.RoleAssistant, Content: "¿Qué vendés?"},
		{Role: store.RoleUser, Content: "Software a medida."},
	}
	title, source := svc.SynthesizeTitle(context.Background(), messages)

	assert.Equal(t, "Estrategia de pricing", title)
	assert.Equal(t, store.TitleSourceDerived, source)
	assert.Equal(t, 1, completer.calls)
}

func TestSynthesizeTitleClampsAnswer(t *testing.T) {
	completer := &stubCompleter{reply: strings.Repeat("t", 120)}
	svc := newTestService(completer)

	messages := []store.Message{
		{Role: store.RoleUser, Content: "hola"},
		{Role: store.RoleAssistant, Content: "hola"},
		{Role: store.RoleUser, Content: "chau"},
	}
	title, source := svc.SynthesizeTitle(context.Background(), messages)

	assert.Equal(t, titleMaxRunes, len([]rune(title)))
	assert.Equal(t, store.TitleSourceSynthesized, source)
}
