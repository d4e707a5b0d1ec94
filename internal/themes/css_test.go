// SPDX-License-Identifier: MIT
package themes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gorilla/css/scanner"
)

func TestGenerateCSS(t *testing.T) {
	theme := Theme{
		{Name: "color-black", Value: "#000"},
		{Name: "color-primary-500", Value: "#ff0000"},
	}

	css := GenerateCSS(theme)
	want := "--sl-color-black: #000;\n--sl-color-primary-500: #ff0000;\n"
	if css != want {
		t.Fatalf("GenerateCSS() = %q, want %q", css, want)
	}
}

func TestGenerateCSSIsDeterministic(t *testing.T) {
	light := DefaultCatalog().GetBaseTheme("light")
	c := DefaultCustomization(light)
	c.ColorPrimary = "#ff0000"

	first := GenerateCSS(Compose(c, light))
	for i := 0; i < 5; i++ {
		if got := GenerateCSS(Compose(c, light)); got != first {
			t.Fatal("CSS output changed between calls with equal input")
		}
	}
}

func TestGeneratedCSSContainsEveryToken(t *testing.T) {
	dark := DefaultCatalog().GetBaseTheme("dark")
	css := GenerateCSS(Compose(DefaultCustomization(dark), dark))

	lines := strings.Split(strings.TrimSuffix(css, "\n"), "\n")
	if len(lines) != len(dark.Tokens) {
		t.Fatalf("expected %d lines, got %d", len(dark.Tokens), len(lines))
	}
	for i, tok := range dark.Tokens {
		want := "--sl-" + tok.Name + ": " + tok.Value + ";"
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestGenerateCSSBlockTokenizes(t *testing.T) {
	light := DefaultCatalog().GetBaseTheme("light")
	css := GenerateCSSBlock(":root", Compose(DefaultCustomization(light), light))

	if !strings.HasPrefix(css, ":root {\n") {
		t.Fatal("CSS block missing :root selector")
	}
	if !strings.HasSuffix(css, "}\n") {
		t.Fatal("CSS block missing closing brace")
	}

	s := scanner.New(css)
	values := 0
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			t.Fatalf("CSS did not tokenize: %v", tok)
		}
		if tok.Type == scanner.TokenHash {
			values++
		}
	}
	// Every light token is a hex color.
	if values != len(light.Tokens) {
		t.Errorf("expected %d hex values, found %d", len(light.Tokens), values)
	}
}

func TestGeneratePreviewCSS(t *testing.T) {
	theme := Theme{{Name: "color-black", Value: "#000"}}

	css := GeneratePreviewCSS(".preview", theme)
	want := ".preview {\n  --sl-color-black: #000;\n  font-family: var(--sl-font-sans);\n  color: var(--sl-color-black);\n}\n"
	if css != want {
		t.Fatalf("GeneratePreviewCSS() = %q, want %q", css, want)
	}
}

func TestGenerateJSON(t *testing.T) {
	theme := Theme{
		{Name: "color-white", Value: "#fff"},
		{Name: "color-black", Value: "#000"},
	}

	out := GenerateJSON(theme)
	want := "{\n  \"color-white\": \"#fff\",\n  \"color-black\": \"#000\"\n}\n"
	if out != want {
		t.Fatalf("GenerateJSON() = %q, want %q", out, want)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["color-black"] != "#000" {
		t.Errorf("expected color-black #000, got %q", parsed["color-black"])
	}
}

func TestGenerateJSONEmptyTheme(t *testing.T) {
	if out := GenerateJSON(nil); out != "{}\n" {
		t.Fatalf("GenerateJSON(nil) = %q", out)
	}
}

func TestGenerateJSONEscapesValues(t *testing.T) {
	out := GenerateJSON(Theme{{Name: "odd", Value: `a"b`}})

	var parsed map[string]string
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["odd"] != `a"b` {
		t.Errorf("value did not survive escaping: %q", parsed["odd"])
	}
}
