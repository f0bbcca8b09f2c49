package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/service"
	"go.uber.org/zap"
)

// UserHandler serves the /api/users endpoints.
type UserHandler struct {
	userService   service.UserService
	cookies       *CookieWriter
	logger        *zap.Logger
	exposeDetails bool
}

func NewUserHandler(userService service.UserService, cookies *CookieWriter, logger *zap.Logger, exposeDetails bool) *UserHandler {
	return &UserHandler{
		userService:   userService,
		cookies:       cookies,
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: *user})
}

// UpdateProfile applies partial profile updates for the authenticated user.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), CurrentUserID(c), &req)
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: *user})
}

// GetUserByID returns the safe view of a user by id.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: *user})
}

// GetPublicProfile returns the public view of a user by username.
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.PublicProfileResponse{User: *profile})
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.UsersResponse{Users: users})
}

// DeleteAccount removes the authenticated user's account and ends the
// session by clearing both token cookies.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := CurrentUserID(c)
	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}

	h.logger.Info("account deleted", zap.String("user_id", userID))
	h.cookies.ClearTokenCookies(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Account deleted successfully"})
}
