package convert

import (
	"testing"

	"pubnav/common"
	"pubnav/wire"
)

func bptr(b bool) *bool { return &b }

func TestPreferencesToEngine(t *testing.T) {
	p := PreferencesToEngine(wire.Preferences{
		FontSize:        fptr(1.2),
		FontFamily:      sptr("Literata"),
		Theme:           sptr("sepia"),
		TextAlign:       sptr("justify"),
		ColumnCount:     sptr("2"),
		Scroll:          bptr(true),
		PublisherStyles: bptr(false),
		TextColor:       sptr("#112233"),
	})

	if p.FontSize == nil || *p.FontSize != 1.2 {
		t.Errorf("fontSize = %v", p.FontSize)
	}
	if p.Theme == nil || *p.Theme != common.ThemeSepia {
		t.Errorf("theme = %v", p.Theme)
	}
	if p.TextAlign == nil || *p.TextAlign != common.TextAlignJustify {
		t.Errorf("textAlign = %v", p.TextAlign)
	}
	if p.ColumnCount == nil || *p.ColumnCount != common.ColumnsTwo {
		t.Errorf("columnCount = %v", p.ColumnCount)
	}
	if p.Scroll == nil || !*p.Scroll {
		t.Errorf("scroll = %v", p.Scroll)
	}
	if p.PublisherStyles == nil || *p.PublisherStyles {
		t.Errorf("publisherStyles = %v", p.PublisherStyles)
	}
	if p.TextColor == nil || p.TextColor.Hex() != "#FF112233" {
		t.Errorf("textColor = %v", p.TextColor)
	}

	// Untouched fields stay absent.
	if p.LineHeight != nil || p.Spread != nil || p.BackgroundColor != nil {
		t.Error("absent wire fields must stay absent")
	}
}

func TestPreferencesUnknownEnumDegrades(t *testing.T) {
	p := PreferencesToEngine(wire.Preferences{
		Theme:       sptr("solarized"),
		TextAlign:   sptr("center"),
		ImageFilter: sptr("sharpen"),
		FontSize:    fptr(0.8),
	})
	if p.Theme != nil || p.TextAlign != nil || p.ImageFilter != nil {
		t.Errorf("unknown enum values must map to absent: %+v", p)
	}
	// Other fields in the same record still apply.
	if p.FontSize == nil || *p.FontSize != 0.8 {
		t.Errorf("fontSize = %v", p.FontSize)
	}
}

func TestPreferencesBadColorMeansNoOverride(t *testing.T) {
	p := PreferencesToEngine(wire.Preferences{
		TextColor:       sptr("#XYZ"),
		BackgroundColor: sptr(""),
	})
	if p.TextColor != nil || p.BackgroundColor != nil {
		t.Errorf("unparseable colors must mean no override: %+v", p)
	}
}

func TestSelectionActionsToEngine(t *testing.T) {
	out := SelectionActionsToEngine([]wire.SelectionAction{
		{ID: "copy", Label: "Copy"},
		{ID: "", Label: "Nameless"},
		{ID: "share", Label: "Share"},
	})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "copy" || out[1].ID != "share" {
		t.Errorf("actions = %+v", out)
	}
}
