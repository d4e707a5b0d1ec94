// SPDX-License-Identifier: MIT
package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/themer/internal/designer"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/sessions"
	"github.com/thatcatcamp/themer/internal/themes"
)

type colorControl struct {
	Field string
	Label string
	Value func(themes.Customization) string
}

// Sidebar order of the color pickers
var colorControls = []colorControl{
	{"colorPrimary", "Primary", func(c themes.Customization) string { return c.ColorPrimary }},
	{"colorInfo", "Info", func(c themes.Customization) string { return c.ColorInfo }},
	{"colorSuccess", "Success", func(c themes.Customization) string { return c.ColorSuccess }},
	{"colorWarning", "Warning", func(c themes.Customization) string { return c.ColorWarning }},
	{"colorDanger", "Danger", func(c themes.Customization) string { return c.ColorDanger }},
	{"colorFront", "Front", func(c themes.Customization) string { return c.ColorFront }},
	{"colorBack", "Back", func(c themes.Customization) string { return c.ColorBack }},
}

type textControl struct {
	Field string
	Label string
	Role  themes.Role
}

var textControls = []textControl{
	{"textPrimary", "Primary text", themes.RolePrimary},
	{"textInfo", "Info text", themes.RoleInfo},
	{"textSuccess", "Success text", themes.RoleSuccess},
	{"textWarning", "Warning text", themes.RoleWarning},
	{"textDanger", "Danger text", themes.RoleDanger},
}

// EditorHandler serves the theme designer page. A ?share= code starts a
// fresh session from the link; a code that does not decode starts one with
// the defaults.
func (h *Handlers) EditorHandler(c *gin.Context) {
	if code := c.Query("share"); code != "" {
		if _, _, err := themes.DecodeShare(code, h.catalog()); err != nil {
			h.Log.Warn().Err(err).Msg("share link did not decode, starting with defaults")
			code = ""
		}
		if _, err := h.startSession(c, sessions.StartOptions{Share: code}); err != nil {
			h.Log.Error().Err(err).Msg("failed to start session from share link")
			c.String(http.StatusInternalServerError, "Failed to start session")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	session := middleware.GetSession(c)
	if session == nil {
		var err error
		session, err = h.startSession(c, sessions.StartOptions{})
		if err != nil {
			h.Log.Error().Err(err).Msg("failed to start session")
			c.String(http.StatusInternalServerError, "Failed to start session")
			return
		}
	}

	page := renderEditor(session.Store, h.catalog(), middleware.GetCSRFToken(c), middleware.GetCSRFTokenHTML(c))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// renderEditor builds the page. csrfField is the hidden input every form
// carries; csrfToken also goes into a meta tag for the script.
func renderEditor(store *designer.Store, catalog *themes.Catalog, csrfToken, csrfField string) string {
	snap := store.Snapshot()

	headerClass := "editor-header"
	if snap.BackIsDark {
		headerClass += " editor-header-dark"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<meta name="csrf-token" content="%s">
	<title>Theme Designer</title>
	<style>%s</style>
	<style id="sl-live">%s</style>
</head>
<body>
	<header class="%s">
		<div class="editor-header-content">
			<span class="editor-logo">Theme Designer</span>
			<div class="header-actions">
				<form method="POST" action="/api/session/invert">%s<button type="submit" class="btn-secondary">Invert</button></form>
				<form method="POST" action="/api/session/reset">%s<button type="submit" class="btn-secondary">Reset</button></form>
				<form method="POST" action="/api/session/share" data-share>%s<button type="submit">Share</button></form>
				<form method="POST" action="/api/session/export">%s<button type="submit">Export</button></form>
				<form method="POST" action="/api/session/delete">%s<button type="submit" class="btn-secondary">New session</button></form>
			</div>
		</div>
		%s
	</header>
	<main class="editor-layout">
		<aside class="editor-sidebar">%s</aside>
		<section class="%s">%s</section>
	</main>
	%s
	<script>%s</script>
</body>
</html>
`,
		html.EscapeString(csrfToken),
		GetEditorCSS(),
		styleText(themes.GeneratePreviewCSS(PreviewSelector, store.Theme())),
		headerClass,
		csrfField, csrfField, csrfField, csrfField, csrfField,
		renderShareMessage(snap),
		renderSidebar(snap, catalog, csrfField),
		strings.TrimPrefix(PreviewSelector, "."),
		previewSample,
		renderExportDrawer(store, snap, csrfField),
		editorScript,
	)
}

// styleText keeps user supplied values from closing the <style> element
func styleText(css string) string {
	return strings.ReplaceAll(css, "<", `\3c `)
}

func renderShareMessage(snap designer.Snapshot) string {
	hidden := " hidden"
	if snap.ShareMessageVisible {
		hidden = ""
	}
	return `<div id="share-message" class="share-message"` + hidden + `>Link copied to clipboard</div>`
}

func renderSidebar(snap designer.Snapshot, catalog *themes.Catalog, csrfField string) string {
	var b strings.Builder

	b.WriteString(`<form method="POST" action="/api/session/base-theme" class="control-group">` + csrfField)
	b.WriteString(`<label for="baseThemeId">Base theme</label><select id="baseThemeId" name="baseThemeId" data-base-theme>`)
	for _, id := range catalog.ListBaseThemeIDs() {
		selected := ""
		if id == snap.BaseThemeID {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`,
			html.EscapeString(id), selected, html.EscapeString(catalog.GetBaseThemeName(id)))
	}
	b.WriteString(`</select><noscript><button type="submit">Apply</button></noscript></form>`)

	b.WriteString(`<form method="POST" action="/api/session/customization" class="control-group" data-customize>` + csrfField)
	b.WriteString(`<h2>Colors</h2>`)
	for _, ctl := range colorControls {
		value := html.EscapeString(ctl.Value(snap.Customization))
		fmt.Fprintf(&b, `<label class="color-control"><span class="swatch" style="background: %s"></span>%s<input type="text" name="%s" value="%s" spellcheck="false"></label>`,
			value, ctl.Label, ctl.Field, value)
	}

	b.WriteString(`<h2>Text</h2>`)
	for _, ctl := range textControls {
		current := snap.Customization.Text(ctl.Role)
		fmt.Fprintf(&b, `<label class="text-control">%s<select name="%s">`, ctl.Label, ctl.Field)
		for _, mode := range []themes.TextMode{themes.TextDefault, themes.TextFront, themes.TextBack} {
			selected := ""
			if mode == current {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, mode, selected, mode)
		}
		b.WriteString(`</select></label>`)
	}
	b.WriteString(`<noscript><button type="submit">Apply</button></noscript></form>`)

	return b.String()
}

func renderExportDrawer(store *designer.Store, snap designer.Snapshot, csrfField string) string {
	if !snap.ExportDrawerVisible {
		return `<aside id="export-drawer" class="export-drawer" hidden></aside>`
	}
	return fmt.Sprintf(`<aside id="export-drawer" class="export-drawer">
		<form method="POST" action="/api/session/export/close">%s<button type="submit" class="btn-secondary">Close</button></form>
		<h2>CSS</h2>
		<pre id="export-css">%s</pre>
		<a href="/api/session/theme.css?download=1">Download theme.css</a>
		<h2>JSON</h2>
		<pre id="export-json">%s</pre>
		<a href="/api/session/theme.json?download=1">Download theme.json</a>
	</aside>`,
		csrfField,
		html.EscapeString(themes.GenerateCSSBlock(":root", store.Theme())),
		html.EscapeString(store.JSON()),
	)
}

const previewSample = `
	<h1>Preview</h1>
	<p>Body text uses the front color on the back color.</p>
	<div class="preview-buttons">
		<span class="preview-chip" style="background: var(--sl-color-primary-600); color: var(--sl-color-primary-text)">Primary</span>
		<span class="preview-chip" style="background: var(--sl-color-info-600); color: var(--sl-color-info-text)">Info</span>
		<span class="preview-chip" style="background: var(--sl-color-success-600); color: var(--sl-color-success-text)">Success</span>
		<span class="preview-chip" style="background: var(--sl-color-warning-600); color: var(--sl-color-warning-text)">Warning</span>
		<span class="preview-chip" style="background: var(--sl-color-danger-600); color: var(--sl-color-danger-text)">Danger</span>
	</div>
	<div class="preview-ramp">
		<span style="background: var(--sl-color-primary-50)"></span>
		<span style="background: var(--sl-color-primary-100)"></span>
		<span style="background: var(--sl-color-primary-200)"></span>
		<span style="background: var(--sl-color-primary-300)"></span>
		<span style="background: var(--sl-color-primary-400)"></span>
		<span style="background: var(--sl-color-primary-500)"></span>
		<span style="background: var(--sl-color-primary-600)"></span>
		<span style="background: var(--sl-color-primary-700)"></span>
		<span style="background: var(--sl-color-primary-800)"></span>
		<span style="background: var(--sl-color-primary-900)"></span>
		<span style="background: var(--sl-color-primary-950)"></span>
	</div>
	<div class="preview-card">
		<h2>Card</h2>
		<p>Borders and muted text come from the gray ramp.</p>
	</div>
`

// editorScript moves a share fragment into ?share= (fragments never reach
// the server), sends control changes as JSON and applies live updates.
const editorScript = `
(function () {
	var code = window.location.hash.slice(1);
	if (code) {
		window.location.replace(window.location.pathname + "?share=" + encodeURIComponent(code));
		return;
	}

	var csrf = document.querySelector('meta[name="csrf-token"]').content;

	function send(method, url, body) {
		return fetch(url, {
			method: method,
			credentials: "same-origin",
			headers: {"Content-Type": "application/json", "Accept": "application/json", "X-CSRF-Token": csrf},
			body: body === undefined ? undefined : JSON.stringify(body)
		}).then(function (r) { return r.json(); });
	}

	var form = document.querySelector("[data-customize]");
	form.addEventListener("change", function (e) {
		var patch = {};
		patch[e.target.name] = e.target.value;
		send("PATCH", "/api/session/customization", patch);
	});
	form.addEventListener("submit", function (e) { e.preventDefault(); });

	document.querySelector("[data-base-theme]").addEventListener("change", function (e) {
		send("PUT", "/api/session/base-theme", {baseThemeId: e.target.value}).then(function () {
			window.location.reload();
		});
	});

	document.querySelector("[data-share]").addEventListener("submit", function (e) {
		e.preventDefault();
		send("POST", "/api/session/share").then(function (res) {
			if (navigator.clipboard) { navigator.clipboard.writeText(res.url); }
		});
	});

	var scheme = window.location.protocol === "https:" ? "wss://" : "ws://";
	var socket = new WebSocket(scheme + window.location.host + "/api/session/live");
	socket.onmessage = function (e) {
		var msg = JSON.parse(e.data);
		if (msg.type !== "theme") { return; }
		document.getElementById("sl-live").textContent = msg.css;
		document.getElementById("share-message").hidden = !msg.state.shareThemeMessageVisible;
		document.querySelector("header").classList.toggle("editor-header-dark", msg.state.backIsDark);
		var c = msg.state.customization;
		Array.prototype.forEach.call(form.elements, function (el) {
			if (el.name && c[el.name] !== undefined && el !== document.activeElement) {
				el.value = c[el.name];
				var swatch = el.parentNode.querySelector(".swatch");
				if (swatch) { swatch.style.background = c[el.name]; }
			}
		});
	};
})();
`
