// SPDX-License-Identifier: MIT
package themes

// Compose resolves a full theme from a base theme and a customization.
//
// Each role's ramp is seeded from the customization (see DeriveRamp), the
// front/back colors become color-black/color-white, and a role's text token
// is forced to the front or back color when its mode asks for it. The
// Inverted flag is informational; the swap already happened in the colors.
//
// Compose does not modify base and keeps the base token order.
func Compose(c Customization, base *BaseTheme) Theme {
	theme := base.Tokens.Clone()
	index := make(map[string]int, len(theme))
	for i, tok := range theme {
		index[tok.Name] = i
	}
	replace := func(name, value string) {
		if i, ok := index[name]; ok {
			theme[i].Value = value
		}
	}

	for _, role := range Roles {
		for _, tok := range DeriveRamp(c.Color(role), base.Tokens, role) {
			replace(tok.Name, tok.Value)
		}

		switch c.Text(role) {
		case TextFront:
			replace(role.TextToken(), c.ColorFront)
		case TextBack:
			replace(role.TextToken(), c.ColorBack)
		}
	}

	replace(FrontToken, c.ColorFront)
	replace(BackToken, c.ColorBack)

	return theme
}
