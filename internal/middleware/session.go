// SPDX-License-Identifier: MIT
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/auth"
	"github.com/thatcatcamp/themer/internal/sessions"
)

const (
	sessionIDKey = "session_id"
	sessionKey   = "session"
)

// SessionResolutionMiddleware resolves the designer session named by the
// session cookie (or a Bearer token) and stores it in the context. A
// missing or stale token is not an error here; routes that need a session
// add RequireSession.
func SessionResolutionMiddleware(manager *sessions.Manager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid session token")
			c.Next()
			return
		}

		session, err := manager.Get(c.Request.Context(), claims.SessionID)
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			log.Debug().Str("session", claims.SessionID).Msg("session token for unknown session")
		case err != nil:
			log.Error().Err(err).Str("session", claims.SessionID).Msg("failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		default:
			c.Set(sessionIDKey, session.ID)
			c.Set(sessionKey, session)
		}

		c.Next()
	}
}

// RequireSession aborts with 401 when no session was resolved
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No active designer session, start one with POST /api/sessions"})
			return
		}
		c.Next()
	}
}

// GetSession returns the session resolved for this request, or nil
func GetSession(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessions.Session)
	return s
}

// SetSession records a session created during this request
func SetSession(c *gin.Context, s *sessions.Session) {
	c.Set(sessionIDKey, s.ID)
	c.Set(sessionKey, s)
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
