// SPDX-License-Identifier: MIT
package themes

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

const shareVersion = 1

// DecodeError is returned by DecodeShare for any malformed share string.
// Callers are expected to fall back to defaults.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid share code: %s: %v", e.Reason, e.Err)
	}
	return "invalid share code: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type sharePayload struct {
	Version       int           `json:"v"`
	BaseThemeID   string        `json:"b"`
	Customization Customization `json:"c"`
}

// sharePayloadWire mirrors sharePayload with pointers so missing fields
// can be told apart from empty ones.
type sharePayloadWire struct {
	Version       *int               `json:"v"`
	BaseThemeID   *string            `json:"b"`
	Customization *customizationWire `json:"c"`
}

type customizationWire struct {
	ColorPrimary *string   `json:"colorPrimary"`
	ColorSuccess *string   `json:"colorSuccess"`
	ColorInfo    *string   `json:"colorInfo"`
	ColorWarning *string   `json:"colorWarning"`
	ColorDanger  *string   `json:"colorDanger"`
	ColorFront   *string   `json:"colorFront"`
	ColorBack    *string   `json:"colorBack"`
	TextPrimary  *TextMode `json:"textPrimary"`
	TextInfo     *TextMode `json:"textInfo"`
	TextSuccess  *TextMode `json:"textSuccess"`
	TextWarning  *TextMode `json:"textWarning"`
	TextDanger   *TextMode `json:"textDanger"`
	Inverted     *bool     `json:"inverted"`
}

// EncodeShare serializes a base theme id and customization into a string
// that only uses [A-Za-z0-9_-], so it can sit in a URL fragment unescaped.
func EncodeShare(baseThemeID string, c Customization) string {
	// Marshal cannot fail for a struct of strings and bools.
	data, _ := json.Marshal(sharePayload{
		Version:       shareVersion,
		BaseThemeID:   baseThemeID,
		Customization: c,
	})
	return base64.RawURLEncoding.EncodeToString(data)
}

// Exact field names of the payload. The decoder matches struct fields
// case-insensitively, so keys are checked separately.
var (
	payloadKeys       = []string{"v", "b", "c"}
	customizationKeys = []string{
		"colorPrimary", "colorSuccess", "colorInfo", "colorWarning", "colorDanger",
		"colorFront", "colorBack",
		"textPrimary", "textInfo", "textSuccess", "textWarning", "textDanger",
		"inverted",
	}
)

// DecodeShare reverses EncodeShare. The payload must be exactly one JSON
// object with the exact field names EncodeShare writes, the base theme id
// must be known to catalog and every customization field must be present.
func DecodeShare(code string, catalog *Catalog) (string, Customization, error) {
	code = strings.TrimRight(strings.TrimPrefix(strings.TrimSpace(code), "#"), "=")
	if code == "" {
		return "", Customization{}, &DecodeError{Reason: "empty"}
	}

	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return "", Customization{}, &DecodeError{Reason: "not base64url", Err: err}
	}

	var wire sharePayloadWire
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return "", Customization{}, &DecodeError{Reason: "malformed payload", Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return "", Customization{}, &DecodeError{Reason: "trailing data"}
	}
	if err := checkKeys(raw); err != nil {
		return "", Customization{}, &DecodeError{Reason: err.Error()}
	}

	if wire.Version == nil || *wire.Version != shareVersion {
		return "", Customization{}, &DecodeError{Reason: "unsupported version"}
	}
	if wire.BaseThemeID == nil {
		return "", Customization{}, &DecodeError{Reason: "missing base theme"}
	}
	if _, err := catalog.Lookup(*wire.BaseThemeID); err != nil {
		return "", Customization{}, &DecodeError{Reason: "base theme", Err: err}
	}
	if wire.Customization == nil {
		return "", Customization{}, &DecodeError{Reason: "missing customization"}
	}

	c, err := wire.Customization.customization()
	if err != nil {
		return "", Customization{}, &DecodeError{Reason: err.Error()}
	}
	return *wire.BaseThemeID, c, nil
}

// checkKeys rejects field names that differ from the encoded ones, e.g.
// only by case
func checkKeys(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return err
	}
	if err := onlyKeys(top, payloadKeys); err != nil {
		return err
	}

	c, ok := top["c"]
	if !ok {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c, &fields); err != nil {
		return err
	}
	return onlyKeys(fields, customizationKeys)
}

func onlyKeys(m map[string]json.RawMessage, allowed []string) error {
	for key := range m {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown field %q", key)
		}
	}
	return nil
}

func (w *customizationWire) customization() (Customization, error) {
	colors := []struct {
		field string
		value *string
	}{
		{"colorPrimary", w.ColorPrimary},
		{"colorSuccess", w.ColorSuccess},
		{"colorInfo", w.ColorInfo},
		{"colorWarning", w.ColorWarning},
		{"colorDanger", w.ColorDanger},
		{"colorFront", w.ColorFront},
		{"colorBack", w.ColorBack},
	}
	for _, c := range colors {
		if c.value == nil {
			return Customization{}, fmt.Errorf("missing field %s", c.field)
		}
	}

	modes := []struct {
		field string
		value *TextMode
	}{
		{"textPrimary", w.TextPrimary},
		{"textInfo", w.TextInfo},
		{"textSuccess", w.TextSuccess},
		{"textWarning", w.TextWarning},
		{"textDanger", w.TextDanger},
	}
	for _, m := range modes {
		if m.value == nil {
			return Customization{}, fmt.Errorf("missing field %s", m.field)
		}
		if !m.value.Valid() {
			return Customization{}, fmt.Errorf("invalid %s %q", m.field, *m.value)
		}
	}
	if w.Inverted == nil {
		return Customization{}, fmt.Errorf("missing field inverted")
	}

	return Customization{
		ColorPrimary: *w.ColorPrimary,
		ColorSuccess: *w.ColorSuccess,
		ColorInfo:    *w.ColorInfo,
		ColorWarning: *w.ColorWarning,
		ColorDanger:  *w.ColorDanger,
		ColorFront:   *w.ColorFront,
		ColorBack:    *w.ColorBack,
		TextPrimary:  *w.TextPrimary,
		TextInfo:     *w.TextInfo,
		TextSuccess:  *w.TextSuccess,
		TextWarning:  *w.TextWarning,
		TextDanger:   *w.TextDanger,
		Inverted:     *w.Inverted,
	}, nil
}

// ShareURL builds the shareable link for a page, replacing any fragment
func ShareURL(pageURL, code string) string {
	if i := strings.IndexByte(pageURL, '#'); i >= 0 {
		pageURL = pageURL[:i]
	}
	return pageURL + "#" + code
}

// FragmentFromURL extracts the share code from a link. Input without a
// fragment is returned as is, so bare codes pass through.
func FragmentFromURL(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[i+1:]
	}
	return link
}
