package convert

import (
	"maps"
	"slices"
	"time"

	"golang.org/x/text/language"

	"pubnav/engine"
	"pubnav/wire"
)

// Metadata flattens the engine's publication metadata to the RWPM wire
// shape. Localized fields collapse to a single string via LocalizedString,
// dates become ISO-8601, accessibility and belongsTo pass through
// opaquely. List outputs are never nil, absent scalars stay absent.
func Metadata(m engine.Metadata) wire.Metadata {
	out := wire.Metadata{
		Identifier:         m.Identifier,
		Title:              LocalizedString(m.Title),
		Subtitle:           LocalizedString(m.Subtitle),
		SortAs:             m.SortAs,
		Languages:          slices.Clone(m.Languages),
		Subjects:           subjects(m.Subjects),
		Authors:            contributors(m.Authors),
		Translators:        contributors(m.Translators),
		Editors:            contributors(m.Editors),
		Artists:            contributors(m.Artists),
		Illustrators:       contributors(m.Illustrators),
		Letterers:          contributors(m.Letterers),
		Pencilers:          contributors(m.Pencilers),
		Colorists:          contributors(m.Colorists),
		Inkers:             contributors(m.Inkers),
		Narrators:          contributors(m.Narrators),
		Contributors:       contributors(m.Contributors),
		Publishers:         contributors(m.Publishers),
		Imprints:           contributors(m.Imprints),
		Description:        m.Description,
		Duration:           copyFloat(m.Duration),
		ReadingProgression: m.ReadingProgression,
	}
	if m.Modified != nil {
		out.Modified = m.Modified.UTC().Format(time.RFC3339)
	}
	if m.Published != nil {
		out.Published = m.Published.UTC().Format(time.RFC3339)
	}
	if m.NumberOfPages != nil {
		n := *m.NumberOfPages
		out.NumberOfPages = &n
	}
	if len(m.Accessibility) > 0 {
		out.Accessibility = maps.Clone(m.Accessibility)
	}
	if len(m.BelongsTo) > 0 {
		out.BelongsTo = maps.Clone(m.BelongsTo)
	}
	return out
}

// LocalizedString collapses a translation map to a single string. Priority
// is fixed: the unspecified ("und") translation wins, then English, then
// the first well-formed language key, then the first key outright (keys
// sorted, so the pick is stable).
func LocalizedString(ls engine.LocalizedString) string {
	if len(ls) == 0 {
		return ""
	}

	keys := slices.Sorted(maps.Keys(ls))

	// The und slot is matched on the raw key: language.Parse maps any
	// malformed key to Und as well, and garbage must not outrank a real
	// translation.
	for _, k := range keys {
		if k == "und" || len(k) == 0 {
			return ls[k]
		}
	}
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base.String() == "en" {
			return ls[k]
		}
	}
	for _, k := range keys {
		if _, err := language.Parse(k); err == nil {
			return ls[k]
		}
	}
	return ls[keys[0]]
}

// TableOfContents converts the engine's TOC in its native order, nesting
// preserved. The result is never nil.
func TableOfContents(links []engine.Link) []wire.Link {
	out := make([]wire.Link, 0, len(links))
	for _, l := range links {
		out = append(out, LinkFromEngine(l))
	}
	return out
}

// LinkFromEngine converts a single navigable reference.
func LinkFromEngine(l engine.Link) wire.Link {
	out := wire.Link{
		Href:      l.Href,
		Templated: l.Templated,
		Type:      l.Type,
		Title:     l.Title,
		Rels:      slices.Clone(l.Rels),
		Bitrate:   copyFloat(l.Bitrate),
		Duration:  copyFloat(l.Duration),
		Languages: slices.Clone(l.Languages),
	}
	if l.Height != nil {
		v := *l.Height
		out.Height = &v
	}
	if l.Width != nil {
		v := *l.Width
		out.Width = &v
	}
	if len(l.Children) > 0 {
		out.Children = TableOfContents(l.Children)
	}
	return out
}

func contributors(list []engine.Contributor) []wire.Contributor {
	if len(list) == 0 {
		return nil
	}
	out := make([]wire.Contributor, 0, len(list))
	for _, c := range list {
		name := LocalizedString(c.Name)
		if len(name) == 0 {
			continue
		}
		wc := wire.Contributor{
			Name:       name,
			SortAs:     c.SortAs,
			Identifier: c.Identifier,
			Position:   copyFloat(c.Position),
		}
		if len(c.Roles) > 0 {
			wc.Role = c.Roles[0]
		}
		out = append(out, wc)
	}
	return out
}

func subjects(list []engine.Subject) []wire.Subject {
	if len(list) == 0 {
		return nil
	}
	out := make([]wire.Subject, 0, len(list))
	for _, s := range list {
		name := LocalizedString(s.Name)
		if len(name) == 0 {
			continue
		}
		out = append(out, wire.Subject{
			Name:   name,
			SortAs: s.SortAs,
			Code:   s.Code,
			Scheme: s.Scheme,
		})
	}
	return out
}
