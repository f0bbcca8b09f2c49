package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/chat"
	"github.com/neuralfit/backend/internal/dto"
	"go.uber.org/zap"
)

// ChatHandler serves the /api/chat endpoints.
type ChatHandler struct {
	orchestrator  *chat.Orchestrator
	store         *chat.Store
	logger        *zap.Logger
	exposeDetails bool
}

func NewChatHandler(orchestrator *chat.Orchestrator, store *chat.Store, logger *zap.Logger, exposeDetails bool) *ChatHandler {
	return &ChatHandler{
		orchestrator:  orchestrator,
		store:         store,
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// Chat runs one chat turn: the user's message goes into the conversation,
// the model's reply comes back with the updated transcript.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	resp, err := h.orchestrator.Chat(c.Request.Context(), CurrentUserID(c), req.Message, req.ConversationID)
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateConversation starts an empty conversation.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		WriteValidationError(c, err)
		return
	}

	conv := h.store.Create(CurrentUserID(c), req.Title)
	c.JSON(http.StatusCreated, dto.ConversationResponse{Conversation: *conv})
}

// ListConversations returns the authenticated user's conversation summaries,
// most recently updated first.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	summaries := h.store.ListByUser(CurrentUserID(c))
	c.JSON(http.StatusOK, dto.ConversationsResponse{Conversations: summaries})
}

// GetConversation returns a single conversation with its full transcript.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	conv, err := h.store.Get(c.Param("id"))
	if err != nil {
		WriteError(c, apperrors.NotFound("Conversation not found"), h.exposeDetails)
		return
	}
	if conv.UserID != CurrentUserID(c) {
		WriteError(c, apperrors.Forbidden("Access denied"), h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.ConversationResponse{Conversation: *conv})
}

// Status reports whether the inference endpoint is reachable. Public.
func (h *ChatHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Status(c.Request.Context()))
}
