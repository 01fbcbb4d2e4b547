// Package wire defines the plain-data records crossing the component
// boundary: everything the hosting UI hands to the reader view and
// everything the reader view reports back. All records here are immutable
// value types, constructed fresh on each conversion and never shared with
// the engine.
package wire

// Locator identifies a position within a publication. On the wire href may
// be root-relative and may carry an embedded fragment; the codecs in the
// convert package take care of bringing it to the engine's canonical form.
type Locator struct {
	Href      string    `json:"href"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Locations Locations `json:"locations,omitempty"`
	Text      *Text     `json:"text,omitempty"`
}

// Locations carries the flat position fields of a locator. Progression is
// intra-resource [0,1], Position is a 1-based index into the publication
// position list, TotalProgression is whole-publication [0,1].
type Locations struct {
	Progression      *float64 `json:"progression,omitempty"`
	Position         *float64 `json:"position,omitempty"`
	TotalProgression *float64 `json:"totalProgression,omitempty"`
}

// Text is the snippet context around a text selection.
type Text struct {
	Before    *string `json:"before,omitempty"`
	Highlight *string `json:"highlight,omitempty"`
	After     *string `json:"after,omitempty"`
}

// IsZero reports whether no snippet part is present.
func (t *Text) IsZero() bool {
	return t == nil || (t.Before == nil && t.Highlight == nil && t.After == nil)
}

// Link is a navigable reference, used for table of contents entries.
type Link struct {
	Href      string   `json:"href"`
	Templated bool     `json:"templated,omitempty"`
	Type      string   `json:"type,omitempty"`
	Title     string   `json:"title,omitempty"`
	Rels      []string `json:"rel,omitempty"`
	Height    *int     `json:"height,omitempty"`
	Width     *int     `json:"width,omitempty"`
	Bitrate   *float64 `json:"bitrate,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	Languages []string `json:"language,omitempty"`
	Children  []Link   `json:"children,omitempty"`
}

// Decoration is a visual annotation anchored to a locator. ID must be
// unique within its group. Extras is an opaque bag of application metadata
// returned untouched with interaction events.
type Decoration struct {
	ID      string          `json:"id"`
	Locator Locator         `json:"locator"`
	Style   DecorationStyle `json:"style"`
	Extras  map[string]any  `json:"extras,omitempty"`
}

// DecorationStyle is a tagged union: type is one of "highlight",
// "underline" or "custom". Tint and IsActive apply to the first two, the
// remaining fields to "custom" only.
type DecorationStyle struct {
	Type     string `json:"type"`
	Tint     string `json:"tint,omitempty"`
	IsActive bool   `json:"isActive,omitempty"`
	ID       string `json:"id,omitempty"`
	HTML     string `json:"html,omitempty"`
	CSS      string `json:"css,omitempty"`
	Layout   string `json:"layout,omitempty"`
	Width    string `json:"width,omitempty"`
}

const (
	StyleHighlight = "highlight"
	StyleUnderline = "underline"
	StyleCustom    = "custom"
)

// Preferences is a flat record of optional rendering knobs. An absent field
// means "leave the engine default alone". The record is replaced wholesale
// on every update, never merged at the wire boundary.
type Preferences struct {
	Theme              *string  `json:"theme,omitempty"`
	ColumnCount        *string  `json:"columnCount,omitempty"`
	FontFamily         *string  `json:"fontFamily,omitempty"`
	FontSize           *float64 `json:"fontSize,omitempty"`
	FontWeight         *float64 `json:"fontWeight,omitempty"`
	ImageFilter        *string  `json:"imageFilter,omitempty"`
	Language           *string  `json:"language,omitempty"`
	LetterSpacing      *float64 `json:"letterSpacing,omitempty"`
	LineHeight         *float64 `json:"lineHeight,omitempty"`
	PageMargins        *float64 `json:"pageMargins,omitempty"`
	ParagraphIndent    *float64 `json:"paragraphIndent,omitempty"`
	ParagraphSpacing   *float64 `json:"paragraphSpacing,omitempty"`
	PublisherStyles    *bool    `json:"publisherStyles,omitempty"`
	ReadingProgression *string  `json:"readingProgression,omitempty"`
	Scroll             *bool    `json:"scroll,omitempty"`
	Spread             *string  `json:"spread,omitempty"`
	TextAlign          *string  `json:"textAlign,omitempty"`
	TextColor          *string  `json:"textColor,omitempty"`
	BackgroundColor    *string  `json:"backgroundColor,omitempty"`
	TextNormalization  *bool    `json:"textNormalization,omitempty"`
	TypeScale          *float64 `json:"typeScale,omitempty"`
	VerticalText       *bool    `json:"verticalText,omitempty"`
	WordSpacing        *float64 `json:"wordSpacing,omitempty"`
}

// SelectionAction describes one app-defined entry of the native
// text-selection menu. The whole set is fixed at session construction.
type SelectionAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Contributor is a normalized RWPM contributor record.
type Contributor struct {
	Name       string   `json:"name"`
	SortAs     string   `json:"sortAs,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Role       string   `json:"role,omitempty"`
	Position   *float64 `json:"position,omitempty"`
}

// Subject is a normalized RWPM subject record.
type Subject struct {
	Name   string `json:"name"`
	SortAs string `json:"sortAs,omitempty"`
	Code   string `json:"code,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

// Metadata is publication metadata flattened to the RWPM shape. Localized
// fields are collapsed to a single string, dates are ISO-8601 strings,
// accessibility and belongsTo are passed through opaquely.
type Metadata struct {
	Identifier         string         `json:"identifier,omitempty"`
	Title              string         `json:"title"`
	Subtitle           string         `json:"subtitle,omitempty"`
	SortAs             string         `json:"sortAs,omitempty"`
	Modified           string         `json:"modified,omitempty"`
	Published          string         `json:"published,omitempty"`
	Languages          []string       `json:"language,omitempty"`
	Authors            []Contributor  `json:"author,omitempty"`
	Translators        []Contributor  `json:"translator,omitempty"`
	Editors            []Contributor  `json:"editor,omitempty"`
	Artists            []Contributor  `json:"artist,omitempty"`
	Illustrators       []Contributor  `json:"illustrator,omitempty"`
	Letterers          []Contributor  `json:"letterer,omitempty"`
	Pencilers          []Contributor  `json:"penciler,omitempty"`
	Colorists          []Contributor  `json:"colorist,omitempty"`
	Inkers             []Contributor  `json:"inker,omitempty"`
	Narrators          []Contributor  `json:"narrator,omitempty"`
	Contributors       []Contributor  `json:"contributor,omitempty"`
	Publishers         []Contributor  `json:"publisher,omitempty"`
	Imprints           []Contributor  `json:"imprint,omitempty"`
	Subjects           []Subject      `json:"subject,omitempty"`
	Description        string         `json:"description,omitempty"`
	Duration           *float64       `json:"duration,omitempty"`
	NumberOfPages      *int           `json:"numberOfPages,omitempty"`
	ReadingProgression string         `json:"readingProgression,omitempty"`
	Accessibility      map[string]any `json:"accessibility,omitempty"`
	BelongsTo          map[string]any `json:"belongsTo,omitempty"`
}
