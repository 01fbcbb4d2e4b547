package wire

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Equal reports whether two locators identify the same position. Title and
// text context participate: the engine treats locators as value objects and
// so do we.
func (l Locator) Equal(other Locator) bool {
	if l.Href != other.Href || l.Type != other.Type || l.Title != other.Title {
		return false
	}
	if !l.Locations.Equal(other.Locations) {
		return false
	}
	return textEqual(l.Text, other.Text)
}

// Equal reports whether both location records carry the same fields.
func (l Locations) Equal(other Locations) bool {
	return eqFloat(l.Progression, other.Progression) &&
		eqFloat(l.Position, other.Position) &&
		eqFloat(l.TotalProgression, other.TotalProgression)
}

// Hash returns a structural hash of the locator, stable across process
// runs. Locators that compare Equal hash identically.
func (l Locator) Hash() uint64 {
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	write(l.Href)
	write(l.Type)
	write(l.Title)
	writeFloat := func(f *float64) {
		if f == nil {
			write("")
			return
		}
		write(strconv.FormatUint(math.Float64bits(*f), 16))
	}
	writeFloat(l.Locations.Progression)
	writeFloat(l.Locations.Position)
	writeFloat(l.Locations.TotalProgression)
	if !l.Text.IsZero() {
		writeStr := func(s *string) {
			if s == nil {
				write("")
				return
			}
			write(*s)
		}
		writeStr(l.Text.Before)
		writeStr(l.Text.Highlight)
		writeStr(l.Text.After)
	}
	return h.Sum64()
}

func textEqual(a, b *Text) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	if a.IsZero() != b.IsZero() {
		return false
	}
	return eqStr(a.Before, b.Before) && eqStr(a.Highlight, b.Highlight) && eqStr(a.After, b.After)
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
