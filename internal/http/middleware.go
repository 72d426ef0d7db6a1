package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"viewtube/internal/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	contextUserKey = "authenticatedUser"
)

// requireAuth extracts the access token from the cookie or the Authorization
// header, verifies it, resolves the account, and attaches the sanitized user
// to the request context. Runs before any ownership check.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(accessTokenCookie)
		if token == "" {
			header := c.GetHeader("Authorization")
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized request: no token provided")
			return
		}

		userID, err := h.auth.VerifyAccessToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid access token: user not found")
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// currentUser returns the identity attached by requireAuth.
func currentUser(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized request")
		return nil, false
	}
	user, ok := value.(*domain.User)
	if !ok || user == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized request")
		return nil, false
	}
	return user, true
}

func (h *Handler) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.limiter.allow(c.ClientIP()) {
			respondError(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}

func (h *Handler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(accessTokenCookie, accessToken, int(h.accessTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, int(h.refreshTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.cookieSecure, true)
}
