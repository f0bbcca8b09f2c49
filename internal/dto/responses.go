package dto

import (
	"time"

	"github.com/neuralfit/backend/internal/domain"
)

// UserResponse wraps the safe user view
type UserResponse struct {
	User domain.SafeUser `json:"user"`
}

// UsersResponse wraps a list of safe user views
type UsersResponse struct {
	Users []domain.SafeUser `json:"users"`
}

// PublicProfile is a user as visible to anyone, keyed by username
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfileResponse wraps a public profile
type PublicProfileResponse struct {
	User PublicProfile `json:"user"`
}

// ChatResponse represents a completed chat turn
type ChatResponse struct {
	ConversationID string           `json:"conversationId"`
	Response       string           `json:"response"`
	Messages       []domain.Message `json:"messages"`
}

// ConversationResponse wraps a full conversation with its messages
type ConversationResponse struct {
	Conversation domain.Conversation `json:"conversation"`
}

// ConversationsResponse wraps the authenticated user's conversation list
type ConversationsResponse struct {
	Conversations []domain.ConversationSummary `json:"conversations"`
}

// StatusResponse reports inference endpoint readiness
type StatusResponse struct {
	Status    string    `json:"status"`
	Ready     bool      `json:"ready"`
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// Set on refresh failures so the client knows to drop its session.
	RequiresReauthentication bool `json:"requiresReauthentication,omitempty"`
}
