package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/config"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	refreshCookiePath = "/api/auth/refresh-token"
)

// CookieWriter applies the configured cookie attributes when issuing or
// clearing the token cookies.
type CookieWriter struct {
	secure        bool
	sameSite      http.SameSite
	domain        string
	accessMaxAge  int
	refreshMaxAge int
}

func NewCookieWriter(cfg *config.Config) *CookieWriter {
	sameSite := http.SameSiteLaxMode
	switch cfg.Cookie.SameSite {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}

	return &CookieWriter{
		secure:        cfg.Cookie.Secure,
		sameSite:      sameSite,
		domain:        cfg.Cookie.Domain,
		accessMaxAge:  int(cfg.JWT.AccessTokenExpiry.Seconds()),
		refreshMaxAge: int(cfg.JWT.RefreshTokenExpiry.Seconds()),
	}
}

// SetTokenCookies attaches the access and refresh token cookies. The refresh
// cookie is scoped to the refresh endpoint so it is never sent elsewhere.
func (w *CookieWriter) SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(w.sameSite)
	c.SetCookie(accessTokenCookie, accessToken, w.accessMaxAge, "/", w.domain, w.secure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, w.refreshMaxAge, refreshCookiePath, w.domain, w.secure, true)
}

// ClearTokenCookies expires both token cookies.
func (w *CookieWriter) ClearTokenCookies(c *gin.Context) {
	c.SetSameSite(w.sameSite)
	c.SetCookie(accessTokenCookie, "", -1, "/", w.domain, w.secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, refreshCookiePath, w.domain, w.secure, true)
}
