// SPDX-License-Identifier: MIT
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/auth"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/sessions"
	"github.com/thatcatcamp/themer/internal/themes"
)

// Handlers serves the theme designer over HTTP
type Handlers struct {
	Sessions *sessions.Manager
	Log      zerolog.Logger

	// PublicURL is the editor's external address; derived from the request
	// when empty.
	PublicURL string

	// SecureCookies marks cookies Secure, for TLS deployments
	SecureCookies bool
}

// New creates the designer handlers
func New(manager *sessions.Manager, log zerolog.Logger) *Handlers {
	return &Handlers{Sessions: manager, Log: log}
}

func (h *Handlers) catalog() *themes.Catalog {
	return h.Sessions.Catalog()
}

// startSession creates a session and hands its token to the browser
func (h *Handlers) startSession(c *gin.Context, opts sessions.StartOptions) (*sessions.Session, error) {
	session, err := h.Sessions.Create(c.Request.Context(), opts)
	if err != nil {
		return nil, err
	}
	if _, err := auth.SetSessionCookie(c, session.ID, h.Sessions.TTL(), h.SecureCookies); err != nil {
		return nil, err
	}
	middleware.SetSession(c, session)
	return session, nil
}

// pageURL is the editor address share links are built on
func (h *Handlers) pageURL(c *gin.Context) string {
	if h.PublicURL != "" {
		return strings.TrimRight(h.PublicURL, "/") + "/"
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
}

// wantsJSON tells API clients apart from the editor's plain form posts
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") || c.GetHeader("X-Requested-With") != ""
}

// respond answers JSON clients with body and sends form posts back to the editor
func respond(c *gin.Context, body any) {
	if wantsJSON(c) || c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, body)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// unknownBaseTheme answers 422 when err is a catalog miss
func unknownBaseTheme(c *gin.Context, err error) bool {
	if errors.Is(err, themes.ErrUnknownBaseTheme) {
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return true
	}
	return false
}

// decodeFailure maps share decoding errors to a 400
func decodeFailure(c *gin.Context, err error) bool {
	var decodeErr *themes.DecodeError
	if errors.As(err, &decodeErr) {
		abortWithError(c, http.StatusBadRequest, decodeErr.Error())
		return true
	}
	return false
}
