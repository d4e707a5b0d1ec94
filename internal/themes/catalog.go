// SPDX-License-Identifier: MIT
package themes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed catalog/base_themes.yaml
var embeddedCatalog []byte

// ErrUnknownBaseTheme is returned when a base theme id is not in the catalog.
var ErrUnknownBaseTheme = errors.New("unknown base theme")

// BaseTheme is a named catalog entry providing a value for every token.
type BaseTheme struct {
	ID     string
	Name   string
	Tokens Theme
}

// Catalog is a fixed, ordered set of base themes.
type Catalog struct {
	themes map[string]*BaseTheme
	ids    []string
}

type catalogFile struct {
	Themes []struct {
		ID     string        `yaml:"id"`
		Name   string        `yaml:"name"`
		Tokens yaml.MapSlice `yaml:"tokens"`
	} `yaml:"themes"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog compiled into the binary
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded base theme catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalogFile reads a catalog from a YAML file
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML catalog. Token order within each theme is kept.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Themes) == 0 {
		return nil, errors.New("catalog has no themes")
	}

	c := &Catalog{themes: make(map[string]*BaseTheme)}
	for _, entry := range file.Themes {
		if entry.ID == "" {
			return nil, errors.New("catalog entry without id")
		}
		if _, dup := c.themes[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate base theme %q", entry.ID)
		}

		base := &BaseTheme{ID: entry.ID, Name: entry.Name}
		if base.Name == "" {
			base.Name = entry.ID
		}
		for _, item := range entry.Tokens {
			value, ok := item.Value.(string)
			if !ok {
				return nil, fmt.Errorf("theme %q: token %v must be a string", entry.ID, item.Key)
			}
			base.Tokens = append(base.Tokens, Token{Name: fmt.Sprint(item.Key), Value: value})
		}
		if err := checkRequiredTokens(base); err != nil {
			return nil, err
		}

		c.themes[base.ID] = base
		c.ids = append(c.ids, base.ID)
	}
	return c, nil
}

func checkRequiredTokens(base *BaseTheme) error {
	required := []string{FrontToken, BackToken}
	for _, role := range Roles {
		required = append(required, role.SeedToken(), role.TextToken())
	}
	for _, name := range required {
		if _, ok := base.Tokens.Get(name); !ok {
			return fmt.Errorf("theme %q: missing token %s", base.ID, name)
		}
	}
	return nil
}

// GetBaseTheme returns a copy of a base theme, or nil if id is unknown
func (c *Catalog) GetBaseTheme(id string) *BaseTheme {
	base, ok := c.themes[id]
	if !ok {
		return nil
	}
	return &BaseTheme{ID: base.ID, Name: base.Name, Tokens: base.Tokens.Clone()}
}

// GetBaseThemeName returns the display name of a base theme
func (c *Catalog) GetBaseThemeName(id string) string {
	if base, ok := c.themes[id]; ok {
		return base.Name
	}
	return ""
}

// ListBaseThemeIDs returns all base theme ids in catalog order
func (c *Catalog) ListBaseThemeIDs() []string {
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id string) bool {
	_, ok := c.themes[id]
	return ok
}

// Lookup is GetBaseTheme with an error for unknown ids.
func (c *Catalog) Lookup(id string) (*BaseTheme, error) {
	base := c.GetBaseTheme(id)
	if base == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBaseTheme, id)
	}
	return base, nil
}
