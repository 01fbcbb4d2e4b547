package convert

import (
	"math"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"pubnav/engine"
)

// DefaultTint is the fallback used when a decoration tint cannot be parsed.
// Decorations must keep rendering even with a malformed style, so color
// parsing never fails - it degrades to opaque yellow.
var DefaultTint = engine.Color{A: 0xFF, R: 0xFF, G: 0xFF, B: 0x00}

// ParseColor parses a CSS color string (#RGB, #RRGGBB, #AARRGGBB, rgb(),
// rgba() or a named color). It is total: any unparseable input yields
// DefaultTint.
func ParseColor(s string) engine.Color {
	if c, ok := ParseColorOptional(s); ok {
		return c
	}
	return DefaultTint
}

// ParseColorOptional parses a CSS color string and reports success.
// Preference color overrides use this form: there an unparseable value
// means "no override", not a forced fallback.
func ParseColorOptional(s string) (engine.Color, bool) {
	lexer := css.NewLexer(parse.NewInput(strings.NewReader(strings.TrimSpace(s))))

	for {
		tt, data := lexer.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.HashToken:
			return parseHexColor(string(data[1:]))
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			if name != "rgb" && name != "rgba" {
				return engine.Color{}, false
			}
			return parseRGBArgs(lexer, name == "rgba")
		case css.IdentToken:
			c, ok := namedColors[strings.ToLower(string(data))]
			return c, ok
		default:
			return engine.Color{}, false
		}
	}
}

// FormatColor serializes a color back to the wire as #AARRGGBB, alpha
// always included.
func FormatColor(c engine.Color) string {
	return c.Hex()
}

func parseHexColor(hex string) (engine.Color, bool) {
	byteAt := func(i int) (uint8, bool) {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	switch len(hex) {
	case 3:
		// #RGB shorthand
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return engine.Color{}, false
		}
		r := uint8(v >> 8 & 0xF)
		g := uint8(v >> 4 & 0xF)
		b := uint8(v & 0xF)
		return engine.Color{A: 0xFF, R: r<<4 | r, G: g<<4 | g, B: b<<4 | b}, true
	case 6:
		r, ok1 := byteAt(0)
		g, ok2 := byteAt(2)
		b, ok3 := byteAt(4)
		if !ok1 || !ok2 || !ok3 {
			return engine.Color{}, false
		}
		return engine.Color{A: 0xFF, R: r, G: g, B: b}, true
	case 8:
		a, ok0 := byteAt(0)
		r, ok1 := byteAt(2)
		g, ok2 := byteAt(4)
		b, ok3 := byteAt(6)
		if !ok0 || !ok1 || !ok2 || !ok3 {
			return engine.Color{}, false
		}
		return engine.Color{A: a, R: r, G: g, B: b}, true
	}
	return engine.Color{}, false
}

// parseRGBArgs consumes tokens after rgb( / rgba( up to the closing
// parenthesis. Alpha is a float in [0,1] scaled to the 0-255 channel.
func parseRGBArgs(lexer *css.Lexer, withAlpha bool) (engine.Color, bool) {
	var args []float64
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.WhitespaceToken, css.CommaToken:
			continue
		case css.NumberToken:
			v, err := strconv.ParseFloat(string(data), 64)
			if err != nil {
				return engine.Color{}, false
			}
			args = append(args, v)
		case css.RightParenthesisToken:
			want := 3
			if withAlpha {
				want = 4
			}
			if len(args) != want {
				return engine.Color{}, false
			}
			c := engine.Color{
				A: 0xFF,
				R: clampChannel(args[0]),
				G: clampChannel(args[1]),
				B: clampChannel(args[2]),
			}
			if withAlpha {
				c.A = clampChannel(math.Round(args[3] * 255))
			}
			return c, true
		default:
			return engine.Color{}, false
		}
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// The subset of CSS named colors worth recognizing on the wire. Unknown
// names degrade the same way malformed syntax does.
var namedColors = map[string]engine.Color{
	"black":   {A: 0xFF, R: 0x00, G: 0x00, B: 0x00},
	"silver":  {A: 0xFF, R: 0xC0, G: 0xC0, B: 0xC0},
	"gray":    {A: 0xFF, R: 0x80, G: 0x80, B: 0x80},
	"grey":    {A: 0xFF, R: 0x80, G: 0x80, B: 0x80},
	"white":   {A: 0xFF, R: 0xFF, G: 0xFF, B: 0xFF},
	"maroon":  {A: 0xFF, R: 0x80, G: 0x00, B: 0x00},
	"red":     {A: 0xFF, R: 0xFF, G: 0x00, B: 0x00},
	"purple":  {A: 0xFF, R: 0x80, G: 0x00, B: 0x80},
	"fuchsia": {A: 0xFF, R: 0xFF, G: 0x00, B: 0xFF},
	"magenta": {A: 0xFF, R: 0xFF, G: 0x00, B: 0xFF},
	"green":   {A: 0xFF, R: 0x00, G: 0x80, B: 0x00},
	"lime":    {A: 0xFF, R: 0x00, G: 0xFF, B: 0x00},
	"olive":   {A: 0xFF, R: 0x80, G: 0x80, B: 0x00},
	"yellow":  {A: 0xFF, R: 0xFF, G: 0xFF, B: 0x00},
	"navy":    {A: 0xFF, R: 0x00, G: 0x00, B: 0x80},
	"blue":    {A: 0xFF, R: 0x00, G: 0x00, B: 0xFF},
	"teal":    {A: 0xFF, R: 0x00, G: 0x80, B: 0x80},
	"aqua":    {A: 0xFF, R: 0x00, G: 0xFF, B: 0xFF},
	"cyan":    {A: 0xFF, R: 0x00, G: 0xFF, B: 0xFF},
	"orange":  {A: 0xFF, R: 0xFF, G: 0xA5, B: 0x00},
	"brown":   {A: 0xFF, R: 0xA5, G: 0x2A, B: 0x2A},
	"pink":    {A: 0xFF, R: 0xFF, G: 0xC0, B: 0xCB},
	"gold":    {A: 0xFF, R: 0xFF, G: 0xD7, B: 0x00},
	"beige":   {A: 0xFF, R: 0xF5, G: 0xF5, B: 0xDC},
	"ivory":   {A: 0xFF, R: 0xFF, G: 0xFF, B: 0xF0},
	"khaki":   {A: 0xFF, R: 0xF0, G: 0xE6, B: 0x8C},
	"coral":   {A: 0xFF, R: 0xFF, G: 0x7F, B: 0x50},
	"salmon":  {A: 0xFF, R: 0xFA, G: 0x80, B: 0x72},
	"violet":  {A: 0xFF, R: 0xEE, G: 0x82, B: 0xEE},
	"indigo":  {A: 0xFF, R: 0x4B, G: 0x00, B: 0x82},
	"tan":     {A: 0xFF, R: 0xD2, G: 0xB4, B: 0x8C},
	"plum":    {A: 0xFF, R: 0xDD, G: 0xA0, B: 0xDD},
	"orchid":  {A: 0xFF, R: 0xDA, G: 0x70, B: 0xD6},
	"crimson": {A: 0xFF, R: 0xDC, G: 0x14, B: 0x3C},
	"tomato":  {A: 0xFF, R: 0xFF, G: 0x63, B: 0x47},
}
