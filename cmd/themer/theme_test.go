// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thatcatcamp/themer/internal/config"
	"github.com/thatcatcamp/themer/internal/themes"
)

type recordingClipboard struct {
	texts []string
}

func (r *recordingClipboard) WriteAll(text string) error {
	r.texts = append(r.texts, text)
	return nil
}

// newFlagCommand returns a command with the theme flags parsed from args
func newFlagCommand(t *testing.T, args ...string) (*cobra.Command, *themeFlags) {
	t.Helper()
	config.InitDefaults()

	f := &themeFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, f
}

func TestThemeFlagsDefaults(t *testing.T) {
	cmd, f := newFlagCommand(t)

	store, err := f.build(cmd, themes.DefaultCatalog(), nil)
	require.NoError(t, err)
	defer store.Close()

	light := themes.DefaultCatalog().GetBaseTheme("light")
	assert.Equal(t, "light", store.BaseThemeID())
	assert.Equal(t, themes.DefaultCustomization(light), store.Customization())
}

func TestThemeFlagsApplyInOrder(t *testing.T) {
	catalog := themes.DefaultCatalog()
	shared := themes.DefaultCustomization(catalog.GetBaseTheme("light"))
	shared.ColorInfo = "#123456"
	link := "https://themer.example.com/#" + themes.EncodeShare("light", shared)

	cmd, f := newFlagCommand(t, "--share", link, "--primary", "#ff0000", "--text-danger", "front", "--invert")

	store, err := f.build(cmd, catalog, nil)
	require.NoError(t, err)
	defer store.Close()

	c := store.Customization()
	assert.Equal(t, "#123456", c.ColorInfo, "share code is the starting point")
	assert.Equal(t, "#ff0000", c.ColorPrimary)
	assert.Equal(t, themes.TextFront, c.TextDanger)
	assert.True(t, c.Inverted)
	assert.Equal(t, shared.ColorBack, c.ColorFront)
}

func TestThemeFlagsBaseResetsShare(t *testing.T) {
	catalog := themes.DefaultCatalog()
	shared := themes.DefaultCustomization(catalog.GetBaseTheme("light"))
	shared.ColorInfo = "#123456"

	cmd, f := newFlagCommand(t, "--share", themes.EncodeShare("light", shared), "--base", "dark")

	store, err := f.build(cmd, catalog, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "dark", store.BaseThemeID())
	assert.Equal(t, themes.DefaultCustomization(catalog.GetBaseTheme("dark")), store.Customization())
}

func TestThemeFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown base", []string{"--base", "neon"}, "unknown base theme"},
		{"bad share", []string{"--share", "%%%"}, "share"},
		{"bad text mode", []string{"--text-info", "loud"}, "--text-info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := newFlagCommand(t, tt.args...)
			_, err := f.build(cmd, themes.DefaultCatalog(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestShareCopiesToClipboard(t *testing.T) {
	cmd, f := newFlagCommand(t, "--primary", "#ff0000")
	clip := &recordingClipboard{}

	store, err := f.build(cmd, themes.DefaultCatalog(), clip)
	require.NoError(t, err)
	defer store.Close()

	link := store.Share("https://themer.example.com/")
	require.Len(t, clip.texts, 1)
	assert.Equal(t, link, clip.texts[0])
	assert.True(t, strings.HasPrefix(link, "https://themer.example.com/#"))
}

func TestWriteExport(t *testing.T) {
	cmd, f := newFlagCommand(t, "--primary", "#ff0000")
	store, err := f.build(cmd, themes.DefaultCatalog(), nil)
	require.NoError(t, err)
	defer store.Close()

	var css bytes.Buffer
	require.NoError(t, writeExport(&css, store, "css", ":root"))
	assert.True(t, strings.HasPrefix(css.String(), ":root {\n"))
	assert.Contains(t, css.String(), "  --sl-color-primary-500: #ff0000;\n")

	var bare bytes.Buffer
	require.NoError(t, writeExport(&bare, store, "CSS", ""))
	assert.True(t, strings.HasPrefix(bare.String(), "--sl-"))

	var js bytes.Buffer
	require.NoError(t, writeExport(&js, store, "json", ""))
	assert.Contains(t, js.String(), `"color-primary-500": "#ff0000"`)

	assert.Error(t, writeExport(&bytes.Buffer{}, store, "xml", ""))
}

func TestWriteDecoded(t *testing.T) {
	catalog := themes.DefaultCatalog()
	c := themes.DefaultCustomization(catalog.GetBaseTheme("dark"))
	c.ColorWarning = "orange"

	var out bytes.Buffer
	require.NoError(t, writeDecoded(&out, catalog, "https://themer.example.com/#"+themes.EncodeShare("dark", c)))

	var got decodedShare
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "dark", got.BaseTheme)
	assert.Equal(t, "Dark", got.BaseThemeName)
	assert.Equal(t, c, got.Customization)

	err := writeDecoded(&bytes.Buffer{}, catalog, "garbage")
	require.Error(t, err)
	var decodeErr *themes.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestPrintBaseThemes(t *testing.T) {
	var out bytes.Buffer
	printBaseThemes(&out, themes.DefaultCatalog(), "light")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* light"))
	assert.True(t, strings.HasPrefix(lines[1], "  dark"))
	assert.True(t, strings.HasSuffix(lines[1], "Dark"))
}

func TestFlattenSettings(t *testing.T) {
	lines := flattenSettings("", map[string]interface{}{
		"server": map[string]interface{}{"http_port": "8080", "tls_enabled": false},
		"log":    map[string]interface{}{"level": "info"},
	})

	assert.Equal(t, []string{
		"log.level: info",
		"server.http_port: 8080",
		"server.tls_enabled: false",
	}, lines)
}

func TestDefaultPageURL(t *testing.T) {
	config.InitDefaults()
	assert.Equal(t, "http://localhost:8080/", defaultPageURL())
}
