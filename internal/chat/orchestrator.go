package chat

import (
	"context"
	"strings"
	"time"

	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/inference"
	"github.com/neuralfit/backend/pkg/observability"
	"go.uber.org/zap"
)

// FallbackMessage is appended as the assistant turn whenever the inference
// call fails. The conversational surface never shows a hard error.
const FallbackMessage = "Sorry, I'm having trouble connecting to my brain right now. Please try again later."

// Generator produces a completion for a prompt. Satisfied by
// *inference.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Ready(ctx context.Context) bool
}

var _ Generator = (*inference.Client)(nil)

// Orchestrator drives chat turns: it owns prompt assembly, the inference
// call and the fallback policy.
type Orchestrator struct {
	store        *Store
	generator    Generator
	instruments  *observability.Instruments
	logger       *zap.Logger
	systemPrompt string
}

// NewOrchestrator creates a new chat orchestrator
func NewOrchestrator(store *Store, generator Generator, instruments *observability.Instruments, logger *zap.Logger, systemPrompt string) *Orchestrator {
	return &Orchestrator{
		store:        store,
		generator:    generator,
		instruments:  instruments,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
}

// Chat runs one turn. With no conversation id a fresh conversation is
// created; a conversation owned by someone else is rejected.
func (o *Orchestrator) Chat(ctx context.Context, userID, message, conversationID string) (*dto.ChatResponse, error) {
	var conv *domain.Conversation
	if conversationID == "" {
		conv = o.store.Create(userID, "")
	} else {
		var err error
		conv, err = o.store.Get(conversationID)
		if err != nil {
			return nil, err
		}
		if conv.UserID != userID {
			return nil, apperrors.Forbidden("Access denied")
		}
	}

	reply, err := o.GenerateResponse(ctx, conv.ID, message)
	if err != nil {
		return nil, err
	}

	updated, err := o.store.Get(conv.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		ConversationID: updated.ID,
		Response:       reply.Content,
		Messages:       updated.Messages,
	}, nil
}

// GenerateResponse appends the user message, sends the full history to the
// model and appends the reply. Upstream failures do not propagate: the
// fallback message becomes the assistant turn instead, keeping the
// turn-taking illusion intact for the UI.
func (o *Orchestrator) GenerateResponse(ctx context.Context, conversationID, userMessage string) (domain.Message, error) {
	if _, err := o.store.Append(conversationID, domain.MessageRoleUser, userMessage); err != nil {
		return domain.Message{}, err
	}

	conv, err := o.store.Get(conversationID)
	if err != nil {
		return domain.Message{}, err
	}

	prompt := o.formatPrompt(conv.Messages)

	reply, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		o.logger.Error("Inference call failed, answering with fallback",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		o.instruments.ChatFallbacks.Add(ctx, 1)
		reply = FallbackMessage
	}

	msg, err := o.store.Append(conversationID, domain.MessageRoleAssistant, reply)
	if err != nil {
		return domain.Message{}, err
	}

	o.instruments.ChatTurns.Add(ctx, 1)
	return msg, nil
}

// Status reports inference endpoint readiness.
func (o *Orchestrator) Status(ctx context.Context) dto.StatusResponse {
	ready := o.generator.Ready(ctx)

	status := "initializing"
	if ready {
		status = "operational"
	}

	return dto.StatusResponse{
		Status:    status,
		Ready:     ready,
		Timestamp: time.Now(),
	}
}

// formatPrompt serializes the system prompt and the chronological history
// into the instruction format the model was tuned on.
func (o *Orchestrator) formatPrompt(messages []domain.Message) string {
	var b strings.Builder
	b.WriteString("[INST] <<SYS>>\n")
	b.WriteString(o.systemPrompt)
	b.WriteString("\n<</SYS>>\n\n")

	for i, msg := range messages {
		prefix := "User: "
		if msg.Role == domain.MessageRoleAssistant {
			prefix = "Assistant: "
		}
		b.WriteString(prefix)
		b.WriteString(msg.Content)
		if i < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}

	if len(messages) > 0 {
		b.WriteString("\n\nAssistant: ")
	}

	return b.String()
}
