// SPDX-License-Identifier: MIT
package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	csrfCookieName = "themer_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
	csrfContextKey = "csrf_token"
	csrfTokenLen   = 32
)

// CSRFMiddleware protects the session endpoints with a double-submit
// cookie. The token must come back in the X-CSRF-Token header or the
// csrf_token form field on every state-changing request.
func CSRFMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookieName)
		if err != nil || token == "" {
			token, err = generateCSRFToken()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}

			c.SetSameSite(http.SameSiteStrictMode)
			// Readable from JavaScript so the editor can send the header
			c.SetCookie(csrfCookieName, token, 3600*24, "/", "", secure, false)
		}

		c.Set(csrfContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			clientToken := c.GetHeader(csrfHeaderName)
			if clientToken == "" {
				clientToken = c.PostForm(csrfFormField)
			}

			if clientToken != token {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
				return
			}
		}

		c.Next()
	}
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GetCSRFToken returns the CSRF token of the current request
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

// GetCSRFTokenHTML returns a hidden form input carrying the CSRF token, or
// "" when the middleware did not run for this route.
func GetCSRFTokenHTML(c *gin.Context) string {
	token := GetCSRFToken(c)
	if token == "" {
		return ""
	}
	return `<input type="hidden" name="` + csrfFormField + `" value="` + html.EscapeString(token) + `">`
}
