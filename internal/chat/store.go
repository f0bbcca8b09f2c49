// Package chat holds the in-memory conversation registry and the
// orchestrator that turns user messages into model replies.
package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/pkg/observability"
	"go.uber.org/zap"
)

// DefaultTitle is used when a conversation is created without one.
const DefaultTitle = "New Conversation"

// Store is the in-memory conversation registry. Conversations are not
// persisted: a restart loses them, and the idle sweep evicts any
// conversation whose last append is older than the TTL. Unlike a cache
// there is no size bound; the sweep is the only growth guard.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation

	ttl           time.Duration
	sweepInterval time.Duration
	instruments   *observability.Instruments
	logger        *zap.Logger
}

// NewStore creates a new conversation store
func NewStore(ttl, sweepInterval time.Duration, instruments *observability.Instruments, logger *zap.Logger) *Store {
	return &Store{
		conversations: make(map[string]*domain.Conversation),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		instruments:   instruments,
		logger:        logger,
	}
}

// Run sweeps idle conversations until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.logger.Info("Swept idle conversations", zap.Int("count", n))
			}
		}
	}
}

// Sweep removes conversations idle longer than the TTL and returns how
// many were removed.
func (s *Store) Sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var swept int
	for id, conv := range s.conversations {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.conversations, id)
			swept++
		}
	}
	s.mu.Unlock()

	if swept > 0 {
		s.instruments.ConversationsSwept.Add(ctx, int64(swept))
	}
	return swept
}

// Create registers a new empty conversation for the user
func (s *Store) Create(userID, title string) *domain.Conversation {
	if title == "" {
		title = DefaultTitle
	}

	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	copied := snapshot(conv)
	s.mu.Unlock()

	return copied
}

// Get returns a snapshot of a conversation
func (s *Store) Get(conversationID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, apperrors.NotFound("Conversation not found")
	}
	return snapshot(conv), nil
}

// ListByUser returns the user's conversation summaries, most recently
// updated first.
func (s *Store) ListByUser(userID string) []domain.ConversationSummary {
	s.mu.RLock()
	summaries := make([]domain.ConversationSummary, 0)
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			summaries = append(summaries, conv.Summary())
		}
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries
}

// Append adds a message to a conversation and bumps its updated timestamp
func (s *Store) Append(conversationID, role, content string) (domain.Message, error) {
	msg := domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return domain.Message{}, apperrors.NotFound("Conversation not found")
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp

	return msg, nil
}

// snapshot copies a conversation so callers never share the live message
// slice with concurrent appends.
func snapshot(conv *domain.Conversation) *domain.Conversation {
	copied := *conv
	copied.Messages = make([]domain.Message, len(conv.Messages))
	copy(copied.Messages, conv.Messages)
	return &copied
}
