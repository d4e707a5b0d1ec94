// SPDX-License-Identifier: MIT
package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the signed session token
const SessionCookieName = "themer_session"

// SetSessionCookie issues a token for sessionID and stores it in an
// HTTP-only cookie that lives as long as the token.
func SetSessionCookie(c *gin.Context, sessionID string, ttl time.Duration, secure bool) (string, error) {
	token, err := GenerateToken(sessionID, ttl)
	if err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
	return token, nil
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}
