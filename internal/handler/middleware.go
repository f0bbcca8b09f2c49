package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/domain"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/service"
	"go.uber.org/zap"
)

const (
	contextUserKey   = "user"
	contextUserIDKey = "user_id"
	contextRoleKey   = "user_role"
)

// AuthMiddleware authenticates the request from the accessToken cookie,
// falling back to a Bearer header, and loads the user into the context.
func AuthMiddleware(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		user, err := authService.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn("token valid but user lookup failed",
				zap.String("user_id", claims.UserID),
				zap.Error(err))
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextUserIDKey, user.ID)
		c.Set(contextRoleKey, user.Role)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated user
// holds one of the given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(contextRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "Insufficient permissions",
		})
	}
}

// CurrentUser returns the user loaded by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *domain.SafeUser {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*domain.SafeUser)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated user's id, or "".
func CurrentUserID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}

func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
