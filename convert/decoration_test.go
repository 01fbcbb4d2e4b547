package convert

import (
	"testing"

	"pubnav/engine"
	"pubnav/wire"
)

func TestDecorationToEngine(t *testing.T) {
	base := wire.Locator{
		Href:      "/OEBPS/ch1.xhtml",
		Type:      "application/xhtml+xml",
		Locations: wire.Locations{Progression: fptr(0.2)},
	}

	t.Run("highlight", func(t *testing.T) {
		d, ok := DecorationToEngine(wire.Decoration{
			ID:      "h-1",
			Locator: base,
			Style:   wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
			Extras:  map[string]any{"note": "check this"},
		}, nil)
		if !ok {
			t.Fatal("expected conversion to succeed")
		}
		st, isHighlight := d.Style.(engine.HighlightStyle)
		if !isHighlight {
			t.Fatalf("style = %T", d.Style)
		}
		if st.Tint != (engine.Color{A: 0xFF, R: 0xFF, G: 0xFF}) {
			t.Errorf("tint = %v", st.Tint)
		}
		if st.IsActive {
			t.Error("isActive should default to false")
		}
		if d.Extras["note"] != "check this" {
			t.Errorf("extras = %v", d.Extras)
		}
	})

	t.Run("underline active", func(t *testing.T) {
		d, ok := DecorationToEngine(wire.Decoration{
			ID:      "u-1",
			Locator: base,
			Style:   wire.DecorationStyle{Type: wire.StyleUnderline, Tint: "red", IsActive: true},
		}, nil)
		if !ok {
			t.Fatal("expected conversion to succeed")
		}
		st, isUnderline := d.Style.(engine.UnderlineStyle)
		if !isUnderline || !st.IsActive {
			t.Errorf("style = %#v", d.Style)
		}
	})

	t.Run("custom styles are not renderable", func(t *testing.T) {
		if _, ok := DecorationToEngine(wire.Decoration{
			ID:      "c-1",
			Locator: base,
			Style:   wire.DecorationStyle{Type: wire.StyleCustom, ID: "sidemark", HTML: "<div/>"},
		}, nil); ok {
			t.Error("custom styles must convert to absent")
		}
	})

	t.Run("unusable locator drops decoration", func(t *testing.T) {
		if _, ok := DecorationToEngine(wire.Decoration{
			ID:      "bad",
			Locator: wire.Locator{Href: "https://example.com/x"},
			Style:   wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
		}, nil); ok {
			t.Error("expected decoration to be dropped")
		}
	})
}

// The scenario from the highlight-creation flow: converting a highlight and
// back must reproduce an 8-digit opaque-yellow tint.
func TestHighlightRoundTrip(t *testing.T) {
	d, ok := DecorationToEngine(wire.Decoration{
		ID: "h-2",
		Locator: wire.Locator{
			Href:      "/OEBPS/ch1.xhtml",
			Type:      "application/xhtml+xml",
			Locations: wire.Locations{Progression: fptr(0.2)},
		},
		Style: wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
	}, nil)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}

	out := DecorationFromEngine(d)
	if out.Style.Type != wire.StyleHighlight {
		t.Errorf("style type = %q", out.Style.Type)
	}
	if out.Style.Tint != "#FFFFFF00" {
		t.Errorf("tint = %q, want #FFFFFF00", out.Style.Tint)
	}
	if out.Locator.Href != "OEBPS/ch1.xhtml" {
		t.Errorf("href = %q", out.Locator.Href)
	}
}

func TestDecorationFromEngineUnknownStyle(t *testing.T) {
	out := DecorationFromEngine(engine.Decoration{ID: "x", Style: nil})
	if out.Style.Type != wire.StyleCustom {
		t.Errorf("style type = %q, want custom fallback", out.Style.Type)
	}
}

func TestInteractionFromEngine(t *testing.T) {
	ev := InteractionFromEngine(engine.Interaction{
		Decoration: engine.Decoration{
			ID:    "h-1",
			Style: engine.HighlightStyle{Tint: engine.Color{A: 0xFF, R: 0xFF, G: 0xFF}},
		},
		Group: "highlights",
		Rect:  &engine.Rect{X: 1, Y: 2, Width: 3, Height: 4},
	})
	if ev.Group != "highlights" || ev.Decoration.ID != "h-1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Rect == nil || ev.Rect.Width != 3 {
		t.Errorf("rect = %+v", ev.Rect)
	}
	if ev.Point != nil {
		t.Error("point should stay absent")
	}
}
