// SPDX-License-Identifier: MIT
package handlers

const (
	// Editor chrome palette; the preview pane uses the theme being edited
	ColorBgPrimary   = "#FAFAF8" // Cream background
	ColorBgCard      = "#FFFFFF" // White card
	ColorTextPrimary = "#2D2D2D" // Dark charcoal
	ColorTextSecond  = "#6B7280" // Light gray
	ColorAccent      = "#2E8B9E" // Teal accent
	ColorAccentHover = "#1E6F7F" // Darker teal
	ColorBorder      = "#E5E5E3" // Subtle border
)

// GetEditorCSS returns the stylesheet of the designer page itself
func GetEditorCSS() string {
	return `
:root {
	--color-bg-primary: ` + ColorBgPrimary + `;
	--color-bg-card: ` + ColorBgCard + `;
	--color-text-primary: ` + ColorTextPrimary + `;
	--color-text-secondary: ` + ColorTextSecond + `;
	--color-accent: ` + ColorAccent + `;
	--color-accent-hover: ` + ColorAccentHover + `;
	--color-border: ` + ColorBorder + `;
	--font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
	--spacing-xs: 4px;
	--spacing-sm: 8px;
	--spacing-base: 16px;
	--spacing-md: 24px;
	--radius-sm: 4px;
	--radius-base: 6px;
	--shadow-sm: 0 1px 3px rgba(0, 0, 0, 0.1);
	--shadow-dark: 0 1px 6px rgba(0, 0, 0, 0.6);
	--transition: 200ms ease;
}

* { box-sizing: border-box; }

body {
	font-family: var(--font-family);
	background: var(--color-bg-primary);
	color: var(--color-text-primary);
	margin: 0;
	line-height: 1.5;
}

h2 { font-size: 14px; font-weight: 600; margin: var(--spacing-base) 0 var(--spacing-sm); text-transform: uppercase; color: var(--color-text-secondary); }

button {
	font-family: inherit;
	font-size: 14px;
	font-weight: 600;
	border: none;
	border-radius: var(--radius-base);
	padding: var(--spacing-sm) var(--spacing-base);
	background: var(--color-accent);
	color: white;
	cursor: pointer;
	transition: background var(--transition);
}

button:hover { background: var(--color-accent-hover); }

.btn-secondary { background: var(--color-text-secondary); }
.btn-secondary:hover { background: #4B5563; }

input, select {
	font-family: inherit;
	font-size: 14px;
	padding: var(--spacing-xs) var(--spacing-sm);
	border: 1px solid var(--color-border);
	border-radius: var(--radius-sm);
}

input:focus, select:focus {
	outline: none;
	border-color: var(--color-accent);
}

/* Header shadow follows the back color so it stays visible on dark themes */
.editor-header {
	background: var(--color-bg-card);
	border-bottom: 1px solid var(--color-border);
	box-shadow: var(--shadow-sm);
	position: sticky;
	top: 0;
	z-index: 10;
}

.editor-header-dark { box-shadow: var(--shadow-dark); }

.editor-header-content {
	display: flex;
	justify-content: space-between;
	align-items: center;
	padding: var(--spacing-base) var(--spacing-md);
}

.editor-logo { font-size: 20px; font-weight: 700; }

.header-actions { display: flex; gap: var(--spacing-sm); }
.header-actions form { margin: 0; }

.share-message {
	background: var(--color-accent);
	color: white;
	text-align: center;
	padding: var(--spacing-xs);
}

.editor-layout {
	display: grid;
	grid-template-columns: 280px 1fr;
	min-height: calc(100vh - 70px);
}

.editor-sidebar {
	background: var(--color-bg-card);
	border-right: 1px solid var(--color-border);
	padding: var(--spacing-base);
	overflow-y: auto;
}

.control-group { margin-bottom: var(--spacing-md); }

.color-control, .text-control {
	display: grid;
	grid-template-columns: 20px 1fr 110px;
	align-items: center;
	gap: var(--spacing-sm);
	margin-bottom: var(--spacing-sm);
}

.text-control { grid-template-columns: 1fr 110px; }

.swatch {
	width: 20px;
	height: 20px;
	border-radius: var(--radius-sm);
	border: 1px solid var(--color-border);
}

.sl-theme-preview {
	background: var(--sl-color-white);
	padding: var(--spacing-md);
}

.preview-buttons { display: flex; flex-wrap: wrap; gap: var(--spacing-sm); margin: var(--spacing-base) 0; }
.preview-chip { padding: var(--spacing-sm) var(--spacing-base); border-radius: var(--radius-base); font-weight: 600; }
.preview-ramp { display: flex; height: 32px; border-radius: var(--radius-sm); overflow: hidden; margin: var(--spacing-base) 0; }
.preview-ramp span { flex: 1; }
.preview-card {
	border: 1px solid var(--sl-color-gray-200);
	border-radius: var(--radius-base);
	padding: var(--spacing-base);
	color: var(--sl-color-gray-700);
}

.export-drawer {
	position: fixed;
	right: 0;
	top: 0;
	bottom: 0;
	width: min(560px, 100vw);
	background: var(--color-bg-card);
	box-shadow: var(--shadow-sm);
	padding: var(--spacing-md);
	overflow-y: auto;
	z-index: 20;
}

.export-drawer pre {
	background: var(--color-bg-primary);
	border: 1px solid var(--color-border);
	border-radius: var(--radius-sm);
	padding: var(--spacing-sm);
	font-size: 12px;
	max-height: 40vh;
	overflow: auto;
}

@media (max-width: 720px) {
	.editor-layout { grid-template-columns: 1fr; }
	.editor-sidebar { border-right: none; border-bottom: 1px solid var(--color-border); }
}
`
}
