// SPDX-License-Identifier: MIT
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/themer/internal/auth"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/sessions"
	"github.com/thatcatcamp/themer/internal/themes"
)

type baseThemeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type baseThemeRequest struct {
	BaseThemeID string `json:"baseThemeId" form:"baseThemeId" binding:"required"`
}

// HealthHandler reports liveness
func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.Sessions.Len(),
	})
}

// ListBaseThemesHandler lists the catalog in order
func (h *Handlers) ListBaseThemesHandler(c *gin.Context) {
	catalog := h.catalog()
	ids := catalog.ListBaseThemeIDs()

	out := make([]baseThemeInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, baseThemeInfo{ID: id, Name: catalog.GetBaseThemeName(id)})
	}
	c.JSON(http.StatusOK, gin.H{"baseThemes": out})
}

// CreateSessionHandler starts a designer session
func (h *Handlers) CreateSessionHandler(c *gin.Context) {
	var opts sessions.StartOptions
	// An empty body starts a default session
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&opts); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
	}

	if opts.BaseThemeID != "" {
		if _, err := h.catalog().Lookup(opts.BaseThemeID); unknownBaseTheme(c, err) {
			return
		}
	}
	if opts.Customization != nil {
		if err := opts.Customization.Validate(); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if opts.Share != "" {
		opts.Share = themes.FragmentFromURL(opts.Share)
		if _, _, err := themes.DecodeShare(opts.Share, h.catalog()); decodeFailure(c, err) {
			return
		}
	}

	session, err := h.startSession(c, opts)
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to start session")
		abortWithError(c, http.StatusInternalServerError, "Failed to start session")
		return
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusCreated, sessionBody(session))
}

// GetSessionHandler returns the session state
func (h *Handlers) GetSessionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, sessionBody(middleware.GetSession(c)))
}

// DeleteSessionHandler ends the session and clears its cookie
func (h *Handlers) DeleteSessionHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	err := h.Sessions.Delete(c.Request.Context(), session.ID)
	if err != nil && !errors.Is(err, sessions.ErrNotFound) {
		h.Log.Error().Err(err).Str("session", session.ID).Msg("failed to delete session")
		abortWithError(c, http.StatusInternalServerError, "Failed to end session")
		return
	}
	auth.ClearSessionCookie(c, h.SecureCookies)

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Status(http.StatusNoContent)
}

// CustomizeHandler merges a partial customization
func (h *Handlers) CustomizeHandler(c *gin.Context) {
	var partial themes.Partial
	if err := c.ShouldBind(&partial); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid customization: "+err.Error())
		return
	}
	if err := partial.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session := middleware.GetSession(c)
	session.Store.Customize(partial)
	respond(c, sessionBody(session))
}

// SelectBaseThemeHandler switches base theme and resets the customization
func (h *Handlers) SelectBaseThemeHandler(c *gin.Context) {
	var req baseThemeRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "baseThemeId is required")
		return
	}

	if _, err := h.catalog().Lookup(req.BaseThemeID); unknownBaseTheme(c, err) {
		return
	}

	session := middleware.GetSession(c)
	session.Store.SelectBaseTheme(req.BaseThemeID)
	respond(c, sessionBody(session))
}

// InvertHandler swaps front and back colors
func (h *Handlers) InvertHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	session.Store.InvertTheme()
	respond(c, sessionBody(session))
}

// ResetHandler restores the base theme defaults
func (h *Handlers) ResetHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	session.Store.ResetTheme()
	respond(c, sessionBody(session))
}

// ShareHandler builds the share link of the session
func (h *Handlers) ShareHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	link := session.Store.Share(h.pageURL(c))

	h.Log.Debug().Str("session", session.ID).Msg("theme shared")
	respond(c, gin.H{
		"url":   link,
		"code":  themes.FragmentFromURL(link),
		"state": session.Store.Snapshot(),
	})
}

// OpenExportHandler shows the export drawer
func (h *Handlers) OpenExportHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	session.Store.OpenExportDrawer()
	respond(c, sessionBody(session))
}

// CloseExportHandler hides the export drawer
func (h *Handlers) CloseExportHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	session.Store.SetExportDrawerVisible(false)
	respond(c, sessionBody(session))
}

func sessionBody(session *sessions.Session) gin.H {
	return gin.H{
		"id":        session.ID,
		"state":     session.Store.Snapshot(),
		"shareCode": session.Store.ShareCode(),
	}
}
