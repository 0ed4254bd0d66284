// ABOUTME: Chat service that proxies conversations to the completion API
// ABOUTME: Validates personas, filters bad messages, degrades upstream failures to an apology

package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/innotech/consulta-gateway/internal/agents"
	"github.com/innotech/consulta-gateway/internal/llm"
	"github.com/innotech/consulta-gateway/internal/store"
)

// ErrNoValidMessages is returned when filtering leaves nothing to send.
var ErrNoValidMessages = errors.New("no valid messages")

// Apology is the canned assistant reply used when the completion API
// fails. A broken upstream surfaces as a chat bubble, not an error page.
const Apology = "Lo siento, hubo un error procesando tu consulta. Por favor intenta nuevamente."

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
)

// Completer defines what the service needs from the completion client.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Service turns stored conversations into completion requests and back.
type Service struct {
	completer Completer
	logger    *slog.Logger
}

// New creates a chat service.
func New(completer Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer: completer,
		logger:    logger.With("component", "chat"),
	}
}

// Respond sends the conversation to the completion API under the given
// persona and returns the assistant's reply. Only user and assistant
// messages with content are forwarded; the persona system prompt is the
// single system message, so a client cannot smuggle one in.
// Upstream failures are logged and answered with Apology so the caller
// always has something to show.
func (s *Service) Respond(ctx context.Context, agentID string, messages []store.Message) (string, error) {
	agent, ok := agents.Get(agentID)
	if !ok {
		return "", agents.ErrUnknown
	}

	wire := make([]llm.Message, 0, len(messages)+1)
	wire = append(wire, llm.Message{Role: "system", Content: agent.SystemPrompt})
	for _, msg := range messages {
		if !msg.Valid() {
			s.logger.Debug("dropping invalid chat message", "role", msg.Role)
			continue
		}
		wire = append(wire, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	if len(wire) == 1 {
		return "", ErrNoValidMessages
	}

	reply, err := s.completer.Complete(ctx, wire, llm.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		s.logger.Warn("completion failed, answering with apology",
			"agent_id", agentID,
			"messages", len(wire)-1,
			"error", err)
		return Apology, nil
	}

	s.logger.Debug("completion received",
		"agent_id", agentID,
		"reply_chars", len(reply))
	return reply, nil
}
