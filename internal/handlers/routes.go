// SPDX-License-Identifier: MIT
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/themer/internal/middleware"
)

// RegisterRoutes mounts the designer on r. shareLimiter may be nil.
func (h *Handlers) RegisterRoutes(r gin.IRouter, shareLimiter *middleware.RateLimiter) {
	r.GET("/health", h.HealthHandler)

	app := r.Group("/")
	app.Use(middleware.SessionResolutionMiddleware(h.Sessions, h.Log))
	app.Use(middleware.CSRFMiddleware(h.SecureCookies))

	app.GET("/", h.EditorHandler)

	api := app.Group("/api")
	api.GET("/base-themes", h.ListBaseThemesHandler)
	api.POST("/sessions", h.CreateSessionHandler)
	api.GET("/share/:code/theme.css", h.SharedCSSHandler)
	api.GET("/share/:code/theme.json", h.SharedJSONHandler)

	session := api.Group("/session")
	session.Use(middleware.RequireSession())
	session.GET("", h.GetSessionHandler)
	session.DELETE("", h.DeleteSessionHandler)
	session.PATCH("/customization", h.CustomizeHandler)
	session.PUT("/base-theme", h.SelectBaseThemeHandler)
	session.POST("/invert", h.InvertHandler)
	session.POST("/reset", h.ResetHandler)
	session.POST("/export", h.OpenExportHandler)
	session.DELETE("/export", h.CloseExportHandler)
	session.GET("/theme.css", h.ExportCSSHandler)
	session.GET("/theme.json", h.ExportJSONHandler)
	session.GET("/live", h.LiveHandler)

	// HTML forms can only POST
	session.POST("/customization", h.CustomizeHandler)
	session.POST("/base-theme", h.SelectBaseThemeHandler)
	session.POST("/export/close", h.CloseExportHandler)
	session.POST("/delete", h.DeleteSessionHandler)

	if shareLimiter != nil {
		session.POST("/share", middleware.RateLimitMiddleware(shareLimiter), h.ShareHandler)
	} else {
		session.POST("/share", h.ShareHandler)
	}
}
