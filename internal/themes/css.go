// SPDX-License-Identifier: MIT
package themes

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// CSSVariablePrefix is prepended to every token name in CSS output.
const CSSVariablePrefix = "--sl-"

// GenerateCSS emits one custom property declaration per token, in theme order
func GenerateCSS(theme Theme) string {
	var b strings.Builder
	writeDeclarations(&b, theme, "")
	return b.String()
}

// GenerateCSSBlock wraps the declarations in a rule for selector, e.g. ":root"
func GenerateCSSBlock(selector string, theme Theme) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	writeDeclarations(&b, theme, "  ")
	b.WriteString("}\n")
	return b.String()
}

// GeneratePreviewCSS is GenerateCSSBlock plus the base font and text color
// of the live preview container
func GeneratePreviewCSS(selector string, theme Theme) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	writeDeclarations(&b, theme, "  ")
	b.WriteString("  font-family: var(" + CSSVariablePrefix + "font-sans);\n")
	b.WriteString("  color: var(" + CSSVariablePrefix + FrontToken + ");\n")
	b.WriteString("}\n")
	return b.String()
}

func writeDeclarations(b *strings.Builder, theme Theme, indent string) {
	for _, tok := range theme {
		b.WriteString(indent)
		b.WriteString(CSSVariablePrefix)
		b.WriteString(tok.Name)
		b.WriteString(": ")
		b.WriteString(tok.Value)
		b.WriteString(";\n")
	}
}

// GenerateJSON emits the theme as a pretty-printed name -> value object.
// Keys keep the theme order, which a map could not guarantee.
func GenerateJSON(theme Theme) string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, tok := range theme {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  ")
		writeJSONString(&b, tok.Name)
		b.WriteString(": ")
		writeJSONString(&b, tok.Value)
	}
	if len(theme) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func writeJSONString(b *bytes.Buffer, s string) {
	// Marshal of a string cannot fail.
	quoted, _ := json.Marshal(s)
	b.Write(quoted)
}
