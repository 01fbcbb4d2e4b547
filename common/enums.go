// Enums shared between configuration, the wire codecs and the engine
// contract. They are kept in a separate package so that config does not have
// to import the engine and vice versa.
package common

import "fmt"

// Specification of requested reading theme.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
	ThemeSepia
)

var themeNames = map[Theme]string{
	ThemeLight: "light",
	ThemeDark:  "dark",
	ThemeSepia: "sepia",
}

func (t Theme) String() string {
	return themeNames[t]
}

func ParseTheme(s string) (Theme, error) {
	for v, name := range themeNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid Theme", s)
}

func ThemeNames() []string {
	return []string{"light", "dark", "sepia"}
}

// Specification of image rendering adjustment for dark themes.
type ImageFilter int

const (
	ImageFilterNone ImageFilter = iota
	ImageFilterDarken
	ImageFilterInvert
)

var imageFilterNames = map[ImageFilter]string{
	ImageFilterNone:   "none",
	ImageFilterDarken: "darken",
	ImageFilterInvert: "invert",
}

func (f ImageFilter) String() string {
	return imageFilterNames[f]
}

func ParseImageFilter(s string) (ImageFilter, error) {
	for v, name := range imageFilterNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid ImageFilter", s)
}

// Specification of synthetic spread behavior.
type Spread int

const (
	SpreadAuto Spread = iota
	SpreadNever
	SpreadAlways
)

var spreadNames = map[Spread]string{
	SpreadAuto:   "auto",
	SpreadNever:  "never",
	SpreadAlways: "always",
}

func (s Spread) String() string {
	return spreadNames[s]
}

func ParseSpread(s string) (Spread, error) {
	for v, name := range spreadNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid Spread", s)
}

// Specification of text alignment override.
type TextAlign int

const (
	TextAlignStart TextAlign = iota
	TextAlignLeft
	TextAlignRight
	TextAlignJustify
)

var textAlignNames = map[TextAlign]string{
	TextAlignStart:   "start",
	TextAlignLeft:    "left",
	TextAlignRight:   "right",
	TextAlignJustify: "justify",
}

func (a TextAlign) String() string {
	return textAlignNames[a]
}

func ParseTextAlign(s string) (TextAlign, error) {
	for v, name := range textAlignNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid TextAlign", s)
}

// Specification of reading progression direction.
type ReadingProgression int

const (
	ProgressionLTR ReadingProgression = iota
	ProgressionRTL
)

var progressionNames = map[ReadingProgression]string{
	ProgressionLTR: "ltr",
	ProgressionRTL: "rtl",
}

func (p ReadingProgression) String() string {
	return progressionNames[p]
}

func ParseReadingProgression(s string) (ReadingProgression, error) {
	for v, name := range progressionNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid ReadingProgression", s)
}

// Specification of requested column layout.
type ColumnCount int

const (
	ColumnsAuto ColumnCount = iota
	ColumnsOne
	ColumnsTwo
)

var columnCountNames = map[ColumnCount]string{
	ColumnsAuto: "auto",
	ColumnsOne:  "1",
	ColumnsTwo:  "2",
}

func (c ColumnCount) String() string {
	return columnCountNames[c]
}

func ParseColumnCount(s string) (ColumnCount, error) {
	for v, name := range columnCountNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid ColumnCount", s)
}
