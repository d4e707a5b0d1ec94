// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thatcatcamp/themer/internal/config"
	"github.com/thatcatcamp/themer/internal/designer"
	"github.com/thatcatcamp/themer/internal/themes"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Derive, export and share themes offline",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the base themes",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := mustCatalog()
		printBaseThemes(cmd.OutOrStdout(), catalog, config.GetString("themes.default_base"))
	},
}

var exportFlags = &themeFlags{}

var themeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a theme as CSS or JSON",
	Long: `Print a theme as CSS or JSON.

The theme starts from --share (a code or a full link) or the base theme
defaults. --base selects and resets to another base theme, then the color
and text flags are applied, then --invert.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := exportFlags.build(cmd, mustCatalog(), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		format, _ := cmd.Flags().GetString("format")
		selector, _ := cmd.Flags().GetString("selector")
		if err := writeExport(cmd.OutOrStdout(), store, format, selector); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var shareFlags = &themeFlags{}

var themeShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the share link of a theme",
	Run: func(cmd *cobra.Command, args []string) {
		var clip designer.Clipboard
		if copyLink, _ := cmd.Flags().GetBool("copy"); copyLink {
			if clipboard.Unsupported {
				fmt.Fprintln(os.Stderr, "Warning: no clipboard available, printing the link only")
			} else {
				clip = systemClipboard{}
			}
		}

		store, err := shareFlags.build(cmd, mustCatalog(), clip)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		pageURL, _ := cmd.Flags().GetString("url")
		if pageURL == "" {
			pageURL = defaultPageURL()
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Share(pageURL))
	},
}

var themeDecodeCmd = &cobra.Command{
	Use:   "decode <code|link>",
	Short: "Show the base theme and customization inside a share code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDecoded(cmd.OutOrStdout(), mustCatalog(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	exportFlags.register(themeExportCmd)
	themeExportCmd.Flags().String("format", "css", "output format: css or json")
	themeExportCmd.Flags().String("selector", ":root", "CSS rule selector; empty prints bare declarations")

	shareFlags.register(themeShareCmd)
	themeShareCmd.Flags().String("url", "", "editor page the link points at (default server.public_url)")
	themeShareCmd.Flags().Bool("copy", false, "also copy the link to the clipboard")

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeShareCmd)
	themeCmd.AddCommand(themeDecodeCmd)
	rootCmd.AddCommand(themeCmd)
}

// systemClipboard copies share links to the OS clipboard
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// noTimer keeps CLI stores from starting the share message timer
func noTimer(time.Duration, func()) func() {
	return func() {}
}

func mustCatalog() *themes.Catalog {
	if err := initConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return catalog
}

func defaultPageURL() string {
	if u := config.GetString("server.public_url"); u != "" {
		return strings.TrimRight(u, "/") + "/"
	}
	return fmt.Sprintf("http://localhost:%s/", config.GetString("server.http_port"))
}

// themeFlags are the customization flags shared by export and share
type themeFlags struct {
	base   string
	share  string
	invert bool
	colors map[string]*string
	texts  map[string]*string
}

var colorFlagNames = []string{"primary", "info", "success", "warning", "danger", "front", "back"}
var textFlagNames = []string{"primary", "info", "success", "warning", "danger"}

func (f *themeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.base, "base", "", "base theme id (resets the customization)")
	flags.StringVar(&f.share, "share", "", "share code or link to start from")
	flags.BoolVar(&f.invert, "invert", false, "swap front and back colors")

	f.colors = make(map[string]*string)
	for _, name := range colorFlagNames {
		f.colors[name] = flags.String(name, "", name+" color")
	}
	f.texts = make(map[string]*string)
	for _, name := range textFlagNames {
		f.texts[name] = flags.String("text-"+name, "", name+" text mode: default, front or back")
	}
}

// partial collects the color and text flags the user actually set
func (f *themeFlags) partial(cmd *cobra.Command) (themes.Partial, error) {
	var p themes.Partial
	colorFields := map[string]**string{
		"primary": &p.ColorPrimary,
		"info":    &p.ColorInfo,
		"success": &p.ColorSuccess,
		"warning": &p.ColorWarning,
		"danger":  &p.ColorDanger,
		"front":   &p.ColorFront,
		"back":    &p.ColorBack,
	}
	for name, field := range colorFields {
		if cmd.Flags().Changed(name) {
			*field = f.colors[name]
		}
	}

	textFields := map[string]**themes.TextMode{
		"primary": &p.TextPrimary,
		"info":    &p.TextInfo,
		"success": &p.TextSuccess,
		"warning": &p.TextWarning,
		"danger":  &p.TextDanger,
	}
	for name, field := range textFields {
		if !cmd.Flags().Changed("text-" + name) {
			continue
		}
		mode, err := themes.ParseTextMode(*f.texts[name])
		if err != nil {
			return themes.Partial{}, fmt.Errorf("--text-%s: %w", name, err)
		}
		*field = &mode
	}
	return p, nil
}

// build applies the flags in order: share, base, colors and texts, invert
func (f *themeFlags) build(cmd *cobra.Command, catalog *themes.Catalog, clip designer.Clipboard) (*designer.Store, error) {
	if f.base != "" && !catalog.Has(f.base) {
		return nil, fmt.Errorf("unknown base theme %q (available: %s)", f.base, strings.Join(catalog.ListBaseThemeIDs(), ", "))
	}

	code := ""
	if f.share != "" {
		code = themes.FragmentFromURL(f.share)
		if _, _, err := themes.DecodeShare(code, catalog); err != nil {
			return nil, err
		}
	}

	p, err := f.partial(cmd)
	if err != nil {
		return nil, err
	}

	store := designer.New(designer.Options{
		Catalog:            catalog,
		DefaultBaseThemeID: config.GetString("themes.default_base"),
		ShareCode:          code,
		Scheduler:          noTimer,
		Clipboard:          clip,
		Logger:             zerolog.Nop(),
	})

	if f.base != "" {
		store.SelectBaseTheme(f.base)
	}
	store.Customize(p)
	if f.invert {
		store.InvertTheme()
	}
	return store, nil
}

func printBaseThemes(w io.Writer, catalog *themes.Catalog, defaultBase string) {
	for _, id := range catalog.ListBaseThemeIDs() {
		marker := " "
		if id == defaultBase {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-12s %s\n", marker, id, catalog.GetBaseThemeName(id))
	}
}

func writeExport(w io.Writer, store *designer.Store, format, selector string) error {
	switch strings.ToLower(format) {
	case "css":
		if selector == "" {
			_, err := io.WriteString(w, store.CSS())
			return err
		}
		_, err := io.WriteString(w, themes.GenerateCSSBlock(selector, store.Theme()))
		return err
	case "json":
		_, err := io.WriteString(w, store.JSON())
		return err
	}
	return fmt.Errorf("unknown format %q (want css or json)", format)
}

type decodedShare struct {
	BaseTheme     string               `yaml:"baseTheme"`
	BaseThemeName string               `yaml:"baseThemeName"`
	Customization themes.Customization `yaml:"customization"`
}

// writeDecoded prints a share code as YAML. Decode failures are returned
// as *themes.DecodeError.
func writeDecoded(w io.Writer, catalog *themes.Catalog, input string) error {
	id, c, err := themes.DecodeShare(themes.FragmentFromURL(input), catalog)
	if err != nil {
		var decodeErr *themes.DecodeError
		if errors.As(err, &decodeErr) {
			return fmt.Errorf("not a valid share code: %w", err)
		}
		return err
	}

	out, err := yaml.Marshal(decodedShare{
		BaseTheme:     id,
		BaseThemeName: catalog.GetBaseThemeName(id),
		Customization: c,
	})
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}
