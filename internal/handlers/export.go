// SPDX-License-Identifier: MIT
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/themes"
)

const (
	cssContentType  = "text/css; charset=utf-8"
	jsonContentType = "application/json; charset=utf-8"
)

// ExportCSSHandler returns the session theme as a :root rule
func (h *Handlers) ExportCSSHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	css := themes.GenerateCSSBlock(":root", session.Store.Theme())
	serveExport(c, cssContentType, "theme.css", css)
}

// ExportJSONHandler returns the session theme as a JSON object
func (h *Handlers) ExportJSONHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	serveExport(c, jsonContentType, "theme.json", session.Store.JSON())
}

// SharedCSSHandler renders a share code without touching any session
func (h *Handlers) SharedCSSHandler(c *gin.Context) {
	theme, ok := h.sharedTheme(c)
	if !ok {
		return
	}
	serveExport(c, cssContentType, "theme.css", themes.GenerateCSSBlock(":root", theme))
}

// SharedJSONHandler renders a share code as JSON
func (h *Handlers) SharedJSONHandler(c *gin.Context) {
	theme, ok := h.sharedTheme(c)
	if !ok {
		return
	}
	serveExport(c, jsonContentType, "theme.json", themes.GenerateJSON(theme))
}

func (h *Handlers) sharedTheme(c *gin.Context) (themes.Theme, bool) {
	id, customization, err := themes.DecodeShare(c.Param("code"), h.catalog())
	if err != nil {
		if !decodeFailure(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to decode share code")
		}
		return nil, false
	}
	base, err := h.catalog().Lookup(id)
	if unknownBaseTheme(c, err) {
		return nil, false
	}
	return themes.Compose(customization, base), true
}

func serveExport(c *gin.Context, contentType, filename, body string) {
	if c.Query("download") != "" {
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, []byte(body))
}
