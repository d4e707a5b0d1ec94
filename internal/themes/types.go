// SPDX-License-Identifier: MIT
package themes

import (
	"fmt"
	"strconv"
)

// Token is a single named design variable, e.g. color-primary-500.
type Token struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Theme is an ordered list of tokens. Renderers emit tokens in this order.
type Theme []Token

// Get returns the value of a token
func (t Theme) Get(name string) (string, bool) {
	for _, tok := range t {
		if tok.Name == name {
			return tok.Value, true
		}
	}
	return "", false
}

// Value returns the value of a token or "" when the theme lacks it
func (t Theme) Value(name string) string {
	v, _ := t.Get(name)
	return v
}

// Clone returns a copy that shares nothing with t
func (t Theme) Clone() Theme {
	if t == nil {
		return nil
	}
	out := make(Theme, len(t))
	copy(out, t)
	return out
}

// Names of the front/back tokens.
const (
	FrontToken = "color-black"
	BackToken  = "color-white"
)

// Role is one of the five semantic accent roles.
type Role string

const (
	RolePrimary Role = "primary"
	RoleSuccess Role = "success"
	RoleInfo    Role = "info"
	RoleWarning Role = "warning"
	RoleDanger  Role = "danger"
)

// Roles lists the semantic roles in composition order.
var Roles = []Role{RolePrimary, RoleSuccess, RoleInfo, RoleWarning, RoleDanger}

// RampSteps are the shade steps of every role ramp, lightest first in the
// light theme. SeedStep is the step a customized color is written to.
var RampSteps = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

const SeedStep = 500

// RampToken returns the token name of a ramp step, e.g. color-info-300
func (r Role) RampToken(step int) string {
	return "color-" + string(r) + "-" + strconv.Itoa(step)
}

// SeedToken returns the token holding the role's seed color
func (r Role) SeedToken() string {
	return r.RampToken(SeedStep)
}

// TextToken returns the token holding the role's text color
func (r Role) TextToken() string {
	return "color-" + string(r) + "-text"
}

// TextMode selects where a role's text color comes from.
type TextMode string

const (
	TextDefault TextMode = "default"
	TextFront   TextMode = "front"
	TextBack    TextMode = "back"
)

// Valid reports whether m is one of the known modes
func (m TextMode) Valid() bool {
	switch m {
	case TextDefault, TextFront, TextBack:
		return true
	}
	return false
}

// ParseTextMode converts user input into a TextMode
func ParseTextMode(s string) (TextMode, error) {
	m := TextMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid text mode %q (want default, front or back)", s)
	}
	return m, nil
}

// Customization holds the user's overrides on top of a base theme.
// Every field is always set; there is no partial customization.
type Customization struct {
	ColorPrimary string `json:"colorPrimary" yaml:"colorPrimary"`
	ColorSuccess string `json:"colorSuccess" yaml:"colorSuccess"`
	ColorInfo    string `json:"colorInfo" yaml:"colorInfo"`
	ColorWarning string `json:"colorWarning" yaml:"colorWarning"`
	ColorDanger  string `json:"colorDanger" yaml:"colorDanger"`
	ColorFront   string `json:"colorFront" yaml:"colorFront"`
	ColorBack    string `json:"colorBack" yaml:"colorBack"`

	TextPrimary TextMode `json:"textPrimary" yaml:"textPrimary"`
	TextInfo    TextMode `json:"textInfo" yaml:"textInfo"`
	TextSuccess TextMode `json:"textSuccess" yaml:"textSuccess"`
	TextWarning TextMode `json:"textWarning" yaml:"textWarning"`
	TextDanger  TextMode `json:"textDanger" yaml:"textDanger"`

	Inverted bool `json:"inverted" yaml:"inverted"`
}

// Color returns the seed color chosen for a role
func (c Customization) Color(r Role) string {
	switch r {
	case RolePrimary:
		return c.ColorPrimary
	case RoleSuccess:
		return c.ColorSuccess
	case RoleInfo:
		return c.ColorInfo
	case RoleWarning:
		return c.ColorWarning
	case RoleDanger:
		return c.ColorDanger
	}
	return ""
}

// Text returns the text mode chosen for a role
func (c Customization) Text(r Role) TextMode {
	switch r {
	case RolePrimary:
		return c.TextPrimary
	case RoleSuccess:
		return c.TextSuccess
	case RoleInfo:
		return c.TextInfo
	case RoleWarning:
		return c.TextWarning
	case RoleDanger:
		return c.TextDanger
	}
	return TextDefault
}

// Partial is a shallow override of a Customization; nil fields are kept.
type Partial struct {
	ColorPrimary *string `json:"colorPrimary,omitempty" form:"colorPrimary"`
	ColorSuccess *string `json:"colorSuccess,omitempty" form:"colorSuccess"`
	ColorInfo    *string `json:"colorInfo,omitempty" form:"colorInfo"`
	ColorWarning *string `json:"colorWarning,omitempty" form:"colorWarning"`
	ColorDanger  *string `json:"colorDanger,omitempty" form:"colorDanger"`
	ColorFront   *string `json:"colorFront,omitempty" form:"colorFront"`
	ColorBack    *string `json:"colorBack,omitempty" form:"colorBack"`

	TextPrimary *TextMode `json:"textPrimary,omitempty" form:"textPrimary"`
	TextInfo    *TextMode `json:"textInfo,omitempty" form:"textInfo"`
	TextSuccess *TextMode `json:"textSuccess,omitempty" form:"textSuccess"`
	TextWarning *TextMode `json:"textWarning,omitempty" form:"textWarning"`
	TextDanger  *TextMode `json:"textDanger,omitempty" form:"textDanger"`

	Inverted *bool `json:"inverted,omitempty" form:"inverted"`
}

// Validate checks the text modes of a Partial. Colors are not checked.
func (p Partial) Validate() error {
	modes := map[string]*TextMode{
		"textPrimary": p.TextPrimary,
		"textInfo":    p.TextInfo,
		"textSuccess": p.TextSuccess,
		"textWarning": p.TextWarning,
		"textDanger":  p.TextDanger,
	}
	for field, m := range modes {
		if m != nil && !m.Valid() {
			return fmt.Errorf("%s: invalid text mode %q", field, *m)
		}
	}
	return nil
}

// Apply returns c with every field set in p replaced.
func (c Customization) Apply(p Partial) Customization {
	setString(&c.ColorPrimary, p.ColorPrimary)
	setString(&c.ColorSuccess, p.ColorSuccess)
	setString(&c.ColorInfo, p.ColorInfo)
	setString(&c.ColorWarning, p.ColorWarning)
	setString(&c.ColorDanger, p.ColorDanger)
	setString(&c.ColorFront, p.ColorFront)
	setString(&c.ColorBack, p.ColorBack)

	setMode(&c.TextPrimary, p.TextPrimary)
	setMode(&c.TextInfo, p.TextInfo)
	setMode(&c.TextSuccess, p.TextSuccess)
	setMode(&c.TextWarning, p.TextWarning)
	setMode(&c.TextDanger, p.TextDanger)

	if p.Inverted != nil {
		c.Inverted = *p.Inverted
	}
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setMode(dst *TextMode, v *TextMode) {
	if v != nil {
		*dst = *v
	}
}

// DefaultCustomization is the customization a fresh session starts with:
// the base theme's 500 shades, its black/white pair and default text modes.
func DefaultCustomization(base *BaseTheme) Customization {
	tokens := base.Tokens
	return Customization{
		ColorPrimary: tokens.Value(RolePrimary.SeedToken()),
		ColorSuccess: tokens.Value(RoleSuccess.SeedToken()),
		ColorInfo:    tokens.Value(RoleInfo.SeedToken()),
		ColorWarning: tokens.Value(RoleWarning.SeedToken()),
		ColorDanger:  tokens.Value(RoleDanger.SeedToken()),
		ColorFront:   tokens.Value(FrontToken),
		ColorBack:    tokens.Value(BackToken),

		TextPrimary: TextDefault,
		TextInfo:    TextDefault,
		TextSuccess: TextDefault,
		TextWarning: TextDefault,
		TextDanger:  TextDefault,
	}
}
