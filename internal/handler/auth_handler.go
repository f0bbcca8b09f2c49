package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/apperrors"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	authService   service.AuthService
	cookies       *CookieWriter
	logger        *zap.Logger
	exposeDetails bool
}

func NewAuthHandler(authService service.AuthService, cookies *CookieWriter, logger *zap.Logger, exposeDetails bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookies:       cookies,
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// Register creates a new account and opens a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}

	h.cookies.SetTokenCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusCreated, dto.UserResponse{User: result.User})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		WriteError(c, err, h.exposeDetails)
		return
	}

	h.cookies.SetTokenCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, dto.UserResponse{User: result.User})
}

// RefreshToken rotates the refresh token and issues a new access token. Any
// failure clears both cookies and tells the client to re-authenticate.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		h.refreshFailed(c, apperrors.Unauthorized("Refresh token not provided"))
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken, c.ClientIP())
	if err != nil {
		h.refreshFailed(c, err)
		return
	}

	h.cookies.SetTokenCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, dto.UserResponse{User: result.User})
}

func (h *AuthHandler) refreshFailed(c *gin.Context, err error) {
	h.cookies.ClearTokenCookies(c)

	appErr := apperrors.From(err)
	resp := dto.ErrorResponse{
		Error:                    "Unauthorized",
		Message:                  appErr.Message,
		RequiresReauthentication: true,
	}
	if h.exposeDetails && appErr.Err != nil {
		resp.Details = appErr.Err.Error()
	}
	c.JSON(http.StatusUnauthorized, resp)
}

// Logout revokes the current session. It always clears the cookies and
// returns 200, even when the tokens are already gone. The refresh cookie
// is scoped to the refresh endpoint, so browser clients pass the refresh
// token in the body instead.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)
	accessToken, _ := c.Cookie(accessTokenCookie)

	if refreshToken == "" && c.Request.ContentLength > 0 {
		var req dto.LogoutRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken, accessToken, c.ClientIP()); err != nil {
		h.logger.Warn("logout cleanup failed", zap.Error(err))
	}

	h.cookies.ClearTokenCookies(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		WriteError(c, apperrors.Unauthorized("Not authenticated"), h.exposeDetails)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: *user})
}
