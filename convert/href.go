// Package convert implements the codecs between the wire records and the
// engine-native types: hrefs and locators, decorations with their CSS color
// tints, preferences and the RWPM metadata/TOC/positions shapes. All
// conversions degrade to an absent value on bad input, they never fail the
// caller: the wire boundary has to stay forward compatible with values this
// code does not understand yet.
package convert

import "strings"

// NormalizeHref brings a wire href to the engine's canonical form: a
// root-relative href loses exactly one leading slash and an embedded
// fragment is split off at the first '#'. hasFragment distinguishes an
// empty fragment ("ch1.xhtml#") from no fragment at all.
func NormalizeHref(href string) (path, fragment string, hasFragment bool) {
	path = strings.TrimPrefix(href, "/")
	if before, after, found := strings.Cut(path, "#"); found {
		return before, after, true
	}
	return path, "", false
}
