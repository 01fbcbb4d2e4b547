package convert

import (
	"maps"

	"go.uber.org/zap"

	"pubnav/engine"
	"pubnav/wire"
)

// DecorationToEngine converts a wire decoration for engine-side rendering.
// It reports false when the locator does not normalize or the style kind is
// not renderable; such decorations are dropped (and logged), never fatal.
//
// Custom styles are declared on the wire but no engine currently renders
// them, so they convert to absent. This is a known gap, keep it that way.
func DecorationToEngine(d wire.Decoration, log *zap.Logger) (engine.Decoration, bool) {
	if log == nil {
		log = zap.NewNop()
	}

	locator, ok := LocatorToEngine(d.Locator)
	if !ok {
		log.Debug("Dropping decoration with unusable locator",
			zap.String("id", d.ID), zap.String("href", d.Locator.Href))
		return engine.Decoration{}, false
	}

	style, ok := styleToEngine(d.Style)
	if !ok {
		log.Debug("Dropping decoration with unsupported style",
			zap.String("id", d.ID), zap.String("style", d.Style.Type))
		return engine.Decoration{}, false
	}

	out := engine.Decoration{
		ID:      d.ID,
		Locator: locator,
		Style:   style,
	}
	if len(d.Extras) > 0 {
		out.Extras = maps.Clone(d.Extras)
	}
	return out, true
}

func styleToEngine(s wire.DecorationStyle) (engine.DecorationStyle, bool) {
	switch s.Type {
	case wire.StyleHighlight:
		return engine.HighlightStyle{Tint: ParseColor(s.Tint), IsActive: s.IsActive}, true
	case wire.StyleUnderline:
		return engine.UnderlineStyle{Tint: ParseColor(s.Tint), IsActive: s.IsActive}, true
	default:
		return nil, false
	}
}

// DecorationFromEngine converts an engine decoration back to the wire form,
// typically for interaction events. Style kinds the wire does not model
// serialize as a bare "custom" so the event still reaches the application.
func DecorationFromEngine(d engine.Decoration) wire.Decoration {
	out := wire.Decoration{
		ID:      d.ID,
		Locator: LocatorFromEngine(d.Locator),
		Style:   styleFromEngine(d.Style),
	}
	if len(d.Extras) > 0 {
		out.Extras = maps.Clone(d.Extras)
	}
	return out
}

func styleFromEngine(s engine.DecorationStyle) wire.DecorationStyle {
	switch st := s.(type) {
	case engine.HighlightStyle:
		return wire.DecorationStyle{Type: wire.StyleHighlight, Tint: FormatColor(st.Tint), IsActive: st.IsActive}
	case engine.UnderlineStyle:
		return wire.DecorationStyle{Type: wire.StyleUnderline, Tint: FormatColor(st.Tint), IsActive: st.IsActive}
	default:
		return wire.DecorationStyle{Type: wire.StyleCustom}
	}
}

// InteractionFromEngine converts a decoration interaction event.
func InteractionFromEngine(i engine.Interaction) wire.DecorationActivated {
	out := wire.DecorationActivated{
		Decoration: DecorationFromEngine(i.Decoration),
		Group:      i.Group,
	}
	if i.Rect != nil {
		out.Rect = &wire.Rect{X: i.Rect.X, Y: i.Rect.Y, Width: i.Rect.Width, Height: i.Rect.Height}
	}
	if i.Point != nil {
		out.Point = &wire.Point{X: i.Point.X, Y: i.Point.Y}
	}
	return out
}
