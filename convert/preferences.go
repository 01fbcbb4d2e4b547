package convert

import (
	"pubnav/common"
	"pubnav/engine"
	"pubnav/wire"
)

// PreferencesToEngine maps a wire preferences record to the engine's typed
// object. Every field is independently optional: an absent wire field stays
// absent, it is never replaced with a default. Unrecognized enum strings
// also map to absent so that values from a newer wire schema degrade
// instead of crashing, and unparseable color overrides mean "no override".
func PreferencesToEngine(p wire.Preferences) engine.Preferences {
	out := engine.Preferences{
		FontFamily:        copyString(p.FontFamily),
		FontSize:          copyFloat(p.FontSize),
		FontWeight:        copyFloat(p.FontWeight),
		Language:          copyString(p.Language),
		LetterSpacing:     copyFloat(p.LetterSpacing),
		LineHeight:        copyFloat(p.LineHeight),
		PageMargins:       copyFloat(p.PageMargins),
		ParagraphIndent:   copyFloat(p.ParagraphIndent),
		ParagraphSpacing:  copyFloat(p.ParagraphSpacing),
		PublisherStyles:   copyBool(p.PublisherStyles),
		Scroll:            copyBool(p.Scroll),
		TextNormalization: copyBool(p.TextNormalization),
		TypeScale:         copyFloat(p.TypeScale),
		VerticalText:      copyBool(p.VerticalText),
		WordSpacing:       copyFloat(p.WordSpacing),
	}

	if p.Theme != nil {
		if v, err := common.ParseTheme(*p.Theme); err == nil {
			out.Theme = &v
		}
	}
	if p.ColumnCount != nil {
		if v, err := common.ParseColumnCount(*p.ColumnCount); err == nil {
			out.ColumnCount = &v
		}
	}
	if p.ImageFilter != nil {
		if v, err := common.ParseImageFilter(*p.ImageFilter); err == nil {
			out.ImageFilter = &v
		}
	}
	if p.ReadingProgression != nil {
		if v, err := common.ParseReadingProgression(*p.ReadingProgression); err == nil {
			out.ReadingProgression = &v
		}
	}
	if p.Spread != nil {
		if v, err := common.ParseSpread(*p.Spread); err == nil {
			out.Spread = &v
		}
	}
	if p.TextAlign != nil {
		if v, err := common.ParseTextAlign(*p.TextAlign); err == nil {
			out.TextAlign = &v
		}
	}
	if p.TextColor != nil {
		if c, ok := ParseColorOptional(*p.TextColor); ok {
			out.TextColor = &c
		}
	}
	if p.BackgroundColor != nil {
		if c, ok := ParseColorOptional(*p.BackgroundColor); ok {
			out.BackgroundColor = &c
		}
	}
	return out
}

// SelectionActionsToEngine converts the selection menu entries. Entries
// without an id cannot be dispatched back and are skipped.
func SelectionActionsToEngine(actions []wire.SelectionAction) []engine.SelectionAction {
	out := make([]engine.SelectionAction, 0, len(actions))
	for _, a := range actions {
		if len(a.ID) == 0 {
			continue
		}
		out = append(out, engine.SelectionAction{ID: a.ID, Label: a.Label})
	}
	return out
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
