package wire

// Event payloads reported back to the hosting UI.

// PublicationReady is emitted once per attach after metadata, table of
// contents and position list are all available. A failed TOC or positions
// fetch degrades to an empty list, it never blocks the event.
type PublicationReady struct {
	TableOfContents []Link    `json:"tableOfContents"`
	Positions       []Locator `json:"positions"`
	Metadata        Metadata  `json:"metadata"`
}

// Rect is an on-screen rectangle in the engine's coordinate space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is an on-screen point in the engine's coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecorationActivated reports a user interaction with an applied
// decoration. Rect and Point are passed through from the engine without
// transformation.
type DecorationActivated struct {
	Decoration Decoration `json:"decoration"`
	Group      string     `json:"group"`
	Rect       *Rect      `json:"rect,omitempty"`
	Point      *Point     `json:"point,omitempty"`
}

// SelectionChange reports the current text selection. Both fields are nil
// when the selection is cleared.
type SelectionChange struct {
	Locator      *Locator `json:"locator,omitempty"`
	SelectedText *string  `json:"selectedText,omitempty"`
}

// SelectionActionEvent reports invocation of an app-defined entry of the
// native selection menu.
type SelectionActionEvent struct {
	Locator      Locator `json:"locator"`
	SelectedText string  `json:"selectedText"`
	ActionID     string  `json:"actionId"`
}
