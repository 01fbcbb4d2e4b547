package engine

import (
	"fmt"
	"time"

	"pubnav/common"
)

// Engine-native value types. Unlike the wire records these are already
// normalized: hrefs are relative and fragment-free, fragments live in their
// own list, colors are concrete ARGB values and enum fields are typed.

// Locator is the engine's model of a position within a publication.
type Locator struct {
	Href      string
	Type      string
	Title     string
	Fragments []string
	Locations Locations
	Text      Text
}

type Locations struct {
	Progression      *float64
	Position         *int
	TotalProgression *float64
}

type Text struct {
	Before    *string
	Highlight *string
	After     *string
}

// IsZero reports whether no snippet part is present.
func (t Text) IsZero() bool {
	return t.Before == nil && t.Highlight == nil && t.After == nil
}

// Link is the engine's model of a navigable reference. TOC links nest.
type Link struct {
	Href      string
	Templated bool
	Type      string
	Title     string
	Rels      []string
	Height    *int
	Width     *int
	Bitrate   *float64
	Duration  *float64
	Languages []string
	Children  []Link
}

// Color is an ARGB color as the engine consumes it, alpha 0-255.
type Color struct {
	A uint8
	R uint8
	G uint8
	B uint8
}

// Hex serializes the color as #AARRGGBB, alpha always included.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// DecorationStyle is implemented by the engine-renderable style kinds.
type DecorationStyle interface {
	styleKind() string
}

type HighlightStyle struct {
	Tint     Color
	IsActive bool
}

func (HighlightStyle) styleKind() string { return "highlight" }

type UnderlineStyle struct {
	Tint     Color
	IsActive bool
}

func (UnderlineStyle) styleKind() string { return "underline" }

// Decoration is a visual annotation handed to the engine for rendering.
// Extras is carried along untouched and surfaces again in interactions.
type Decoration struct {
	ID      string
	Locator Locator
	Style   DecorationStyle
	Extras  map[string]any
}

// Interaction is a user interaction with a rendered decoration. Rect and
// Point are in the engine's on-screen coordinate space.
type Interaction struct {
	Decoration Decoration
	Group      string
	Rect       *Rect
	Point      *Point
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type Point struct {
	X float64
	Y float64
}

// Selection is the current text selection.
type Selection struct {
	Locator      Locator
	SelectedText string
}

// SelectionAction describes one construction-time selection menu entry.
type SelectionAction struct {
	ID    string
	Label string
}

// Preferences is the engine's typed preferences object. Every field is
// independently optional, nil means "do not touch".
type Preferences struct {
	Theme              *common.Theme
	ColumnCount        *common.ColumnCount
	FontFamily         *string
	FontSize           *float64
	FontWeight         *float64
	ImageFilter        *common.ImageFilter
	Language           *string
	LetterSpacing      *float64
	LineHeight         *float64
	PageMargins        *float64
	ParagraphIndent    *float64
	ParagraphSpacing   *float64
	PublisherStyles    *bool
	ReadingProgression *common.ReadingProgression
	Scroll             *bool
	Spread             *common.Spread
	TextAlign          *common.TextAlign
	TextColor          *Color
	BackgroundColor    *Color
	TextNormalization  *bool
	TypeScale          *float64
	VerticalText       *bool
	WordSpacing        *float64
}

// LocalizedString keys translations by BCP 47 language tag. The engine uses
// "und" for the unspecified language.
type LocalizedString map[string]string

// Contributor is the engine's contributor record.
type Contributor struct {
	Name       LocalizedString
	SortAs     string
	Identifier string
	Roles      []string
	Position   *float64
}

// Subject is the engine's subject record.
type Subject struct {
	Name   LocalizedString
	SortAs string
	Code   string
	Scheme string
}

// Metadata is publication metadata as the engine parsed it, localized
// string fields still keyed by language.
type Metadata struct {
	Identifier         string
	Title              LocalizedString
	Subtitle           LocalizedString
	SortAs             string
	Modified           *time.Time
	Published          *time.Time
	Languages          []string
	Authors            []Contributor
	Translators        []Contributor
	Editors            []Contributor
	Artists            []Contributor
	Illustrators       []Contributor
	Letterers          []Contributor
	Pencilers          []Contributor
	Colorists          []Contributor
	Inkers             []Contributor
	Narrators          []Contributor
	Contributors       []Contributor
	Publishers         []Contributor
	Imprints           []Contributor
	Subjects           []Subject
	Description        string
	Duration           *float64
	NumberOfPages      *int
	ReadingProgression string
	Accessibility      map[string]any
	BelongsTo          map[string]any
}
