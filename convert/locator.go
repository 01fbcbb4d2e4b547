package convert

import (
	"math"
	"net/url"

	"pubnav/engine"
	"pubnav/wire"
)

// LocatorToEngine converts a wire locator to the engine's model. It reports
// false when the normalized resource path is not a valid relative URL
// reference - the caller must treat that as "no locator", not as an error.
func LocatorToEngine(l wire.Locator) (engine.Locator, bool) {
	path, fragment, hasFragment := NormalizeHref(l.Href)
	if !validRelativeRef(path) {
		return engine.Locator{}, false
	}

	out := engine.Locator{
		Href:  path,
		Type:  l.Type,
		Title: l.Title,
	}
	if hasFragment {
		// Wire locators never carry both an embedded '#' and a separate
		// fragment list, so the extracted fragment is the sole element.
		out.Fragments = []string{fragment}
	}

	out.Locations.Progression = copyFloat(l.Locations.Progression)
	out.Locations.TotalProgression = copyFloat(l.Locations.TotalProgression)
	if l.Locations.Position != nil {
		pos := int(math.Trunc(*l.Locations.Position))
		out.Locations.Position = &pos
	}

	if !l.Text.IsZero() {
		out.Text.Before = copyString(l.Text.Before)
		out.Text.Highlight = copyString(l.Text.Highlight)
		out.Text.After = copyString(l.Text.After)
	}
	return out, true
}

// LocatorFromEngine converts an engine locator back to the wire form. The
// text sub-object is emitted only when at least one snippet part is
// present.
func LocatorFromEngine(l engine.Locator) wire.Locator {
	out := wire.Locator{
		Href:  l.Href,
		Type:  l.Type,
		Title: l.Title,
	}
	if len(l.Fragments) > 0 {
		out.Href = l.Href + "#" + l.Fragments[0]
	}

	out.Locations.Progression = copyFloat(l.Locations.Progression)
	out.Locations.TotalProgression = copyFloat(l.Locations.TotalProgression)
	if l.Locations.Position != nil {
		pos := float64(*l.Locations.Position)
		out.Locations.Position = &pos
	}

	if !l.Text.IsZero() {
		out.Text = &wire.Text{
			Before:    copyString(l.Text.Before),
			Highlight: copyString(l.Text.Highlight),
			After:     copyString(l.Text.After),
		}
	}
	return out
}

// Positions converts the engine's position list in its native order. The
// result is never nil.
func Positions(list []engine.Locator) []wire.Locator {
	out := make([]wire.Locator, 0, len(list))
	for _, l := range list {
		out = append(out, LocatorFromEngine(l))
	}
	return out
}

func validRelativeRef(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	// Absolute URLs and authority-carrying references are not resource
	// paths inside a publication.
	return !u.IsAbs() && u.Host == ""
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
