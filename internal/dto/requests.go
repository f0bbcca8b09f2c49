package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the profile fields a user may change.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

// LogoutRequest optionally carries the refresh token in the body. The
// refresh cookie is path-scoped to the refresh endpoint, so browser
// clients cannot send it to logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChatRequest represents a chat turn request
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversationId"`
}

// CreateConversationRequest represents an explicit new-conversation request
type CreateConversationRequest struct {
	Title string `json:"title"`
}
