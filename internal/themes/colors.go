// SPDX-License-Identifier: MIT
package themes

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Below this HSL saturation a shade has no meaningful hue.
const achromatic = 0.02

// ParseColor parses #rgb, #rrggbb and CSS named colors
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, true
	}
	return colorful.Color{}, false
}

// IsDark reports whether a color reads as dark (YIQ brightness below 128).
// Unparseable colors are treated as light.
func IsDark(s string) bool {
	c, ok := ParseColor(s)
	if !ok {
		return false
	}
	r, g, b := c.RGB255()
	yiq := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	return yiq < 128
}

func sameColor(a, b colorful.Color) bool {
	ar, ag, ab := a.RGB255()
	br, bg, bb := b.RGB255()
	return ar == br && ag == bg && ab == bb
}

// DeriveRamp computes a role's ramp from a single seed color. The seed is
// written verbatim to the 500 step; every other step keeps the relative
// position the base theme gives it against its own 500 shade:
//
//   - lightness keeps its proportional distance towards white (lighter
//     steps) or black (darker steps)
//   - saturation keeps the base ratio to the 500 shade
//   - hue keeps the base offset from the 500 shade when both are chromatic
//
// A seed equal to the base 500 shade reproduces the base ramp exactly.
// Steps whose colors cannot be parsed keep their base values.
func DeriveRamp(seed string, base Theme, role Role) Theme {
	ramp := make(Theme, 0, len(RampSteps))

	seedColor, seedOK := ParseColor(seed)
	anchor, anchorOK := ParseColor(base.Value(role.SeedToken()))
	keepBase := !seedOK || !anchorOK || sameColor(seedColor, anchor)

	h, s, l := seedColor.Hsl()
	h5, s5, l5 := anchor.Hsl()

	for _, step := range RampSteps {
		name := role.RampToken(step)
		baseValue, ok := base.Get(name)
		if !ok {
			continue
		}
		if step == SeedStep {
			ramp = append(ramp, Token{Name: name, Value: seed})
			continue
		}
		shade, ok := ParseColor(baseValue)
		if keepBase || !ok {
			ramp = append(ramp, Token{Name: name, Value: baseValue})
			continue
		}

		hs, ss, ls := shade.Hsl()
		derived := colorful.Hsl(
			shiftHue(h, hs, h5, ss, s5),
			scaleSaturation(s, ss, s5),
			shiftLightness(l, ls, l5),
		)
		ramp = append(ramp, Token{Name: name, Value: derived.Clamped().Hex()})
	}
	return ramp
}

func shiftLightness(l, ls, l5 float64) float64 {
	if ls >= l5 {
		if l5 >= 1 {
			return l
		}
		return clamp01(l + (ls-l5)/(1-l5)*(1-l))
	}
	if l5 <= 0 {
		return l
	}
	return clamp01(l - (l5-ls)/l5*l)
}

func scaleSaturation(s, ss, s5 float64) float64 {
	if s5 <= 0 {
		return s
	}
	return clamp01(s * ss / s5)
}

func shiftHue(h, hs, h5, ss, s5 float64) float64 {
	if ss < achromatic || s5 < achromatic {
		return h
	}
	d := hs - h5
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return math.Mod(h+d+360, 360)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
