package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pubnav/bridge"
	"pubnav/config"
	"pubnav/convert"
	"pubnav/engine"
	"pubnav/engine/enginetest"
	"pubnav/state"
	"pubnav/wire"
)

// replayScript is the JSON document the replay command consumes: a scripted
// publication and the ordered host/engine steps to drive through the bridge.
type replayScript struct {
	Publication replayPublication `json:"publication"`
	Steps       []replayStep      `json:"steps"`
}

type replayPublication struct {
	URL              string                 `json:"url,omitempty"`
	Identifier       string                 `json:"identifier,omitempty"`
	Title            string                 `json:"title"`
	TOC              []wire.Link            `json:"toc,omitempty"`
	Positions        []wire.Locator         `json:"positions,omitempty"`
	SelectionActions []wire.SelectionAction `json:"selectionActions,omitempty"`
}

type replayStep struct {
	SetLocation    *wire.Locator     `json:"setLocation,omitempty"`
	SetPreferences *wire.Preferences `json:"setPreferences,omitempty"`
	SetDecorations *struct {
		Group       string            `json:"group"`
		Decorations []wire.Decoration `json:"decorations"`
	} `json:"setDecorations,omitempty"`
	GoForward  bool `json:"goForward,omitempty"`
	GoBackward bool `json:"goBackward,omitempty"`

	EmitLocation  *wire.Locator `json:"emitLocation,omitempty"`
	EmitSelection *struct {
		Locator wire.Locator `json:"locator"`
		Text    string       `json:"text"`
		Clear   bool         `json:"clear,omitempty"`
	} `json:"emitSelection,omitempty"`
	EmitInteraction *struct {
		Group string `json:"group"`
		ID    string `json:"id"`
	} `json:"emitInteraction,omitempty"`
	EmitSelectionAction *struct {
		ID      string       `json:"id"`
		Locator wire.Locator `json:"locator"`
		Text    string       `json:"text"`
	} `json:"emitSelectionAction,omitempty"`
}

// replayEvent is one wire callback observed during the replay, in delivery
// order.
type replayEvent struct {
	Type      string                     `json:"type"`
	Locator   *wire.Locator              `json:"locator,omitempty"`
	Ready     *wire.PublicationReady     `json:"ready,omitempty"`
	Activated *wire.DecorationActivated  `json:"activated,omitempty"`
	Selection *wire.SelectionChange      `json:"selection,omitempty"`
	Action    *wire.SelectionActionEvent `json:"action,omitempty"`
	OpenError string                     `json:"openError,omitempty"`
}

type replayResult struct {
	Publication string        `json:"publication"`
	Events      []replayEvent `json:"events"`
}

// Replay drives a scripted engine session through the bridge and writes the
// wire events the host would have observed. Everything runs on the calling
// goroutine via the direct dispatcher, so the output order is deterministic.
func Replay(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no replay script")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	data, err := os.ReadFile(cmd.Args().Get(0))
	if err != nil {
		return fmt.Errorf("unable to read replay script: %w", err)
	}
	var script replayScript
	if err := json.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("unable to parse replay script: %w", err)
	}
	if len(script.Publication.Title) == 0 {
		return fmt.Errorf("replay script does not name a publication")
	}

	result, err := run(env, &script)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal replay result: %w", err)
	}

	dir := cmd.Args().Get(1)
	if len(dir) == 0 {
		dir = "."
	}
	fname := filepath.Join(dir, config.CleanFileName(slug.Make(script.Publication.Title))+"-replay.json")
	if !env.Overwrite {
		if _, err := os.Stat(fname); err == nil {
			return fmt.Errorf("destination '%s' already exists", fname)
		}
	}
	if err := os.WriteFile(fname, out, 0644); err != nil {
		return fmt.Errorf("unable to write replay result: %w", err)
	}

	env.Log.Info("Replay finished", zap.String("output", fname), zap.Int("events", len(result.Events)))
	return nil
}

func run(env *state.LocalEnv, script *replayScript) (*replayResult, error) {
	url := script.Publication.URL
	if len(url) == 0 {
		url = "replay://" + slug.Make(script.Publication.Title)
	}

	eng := enginetest.New()
	eng.Add(url, scriptedPublication(env.Log, &script.Publication))

	result := &replayResult{Publication: script.Publication.Title, Events: []replayEvent{}}
	record := func(ev replayEvent) { result.Events = append(result.Events, ev) }
	clip := func(s string) string { return clipSnippet(s, env.Cfg.Reader.SnippetLength) }

	v := bridge.NewView(eng, bridge.Callbacks{
		OnLocationChange: func(l wire.Locator) {
			record(replayEvent{Type: "locationChange", Locator: &l})
		},
		OnPublicationReady: func(r wire.PublicationReady) {
			record(replayEvent{Type: "publicationReady", Ready: &r})
		},
		OnDecorationActivated: func(a wire.DecorationActivated) {
			record(replayEvent{Type: "decorationActivated", Activated: &a})
		},
		OnSelectionChange: func(s wire.SelectionChange) {
			if s.SelectedText != nil {
				t := clip(*s.SelectedText)
				s.SelectedText = &t
			}
			record(replayEvent{Type: "selectionChange", Selection: &s})
		},
		OnSelectionAction: func(a wire.SelectionActionEvent) {
			a.SelectedText = clip(a.SelectedText)
			record(replayEvent{Type: "selectionAction", Action: &a})
		},
		OnOpenError: func(err error) {
			record(replayEvent{Type: "openError", OpenError: err.Error()})
		},
	}, env.Views, env.Log,
		bridge.WithDispatcher(&bridge.DirectDispatcher{}),
		bridge.WithAnimatedNavigation(env.Cfg.Reader.AnimatedNavigation))
	defer func() { _ = v.Detach() }()

	if prefs := env.Cfg.Reader.Preferences.Wire(); prefs != (wire.Preferences{}) {
		v.SetPreferences(prefs)
	}
	v.SetSelectionActions(script.Publication.SelectionActions)
	v.SetFile(url)

	sessions := eng.Sessions()
	if len(sessions) == 0 {
		// open failed, the openError event is already recorded
		return result, nil
	}
	sess := sessions[0]

	for i, step := range script.Steps {
		if err := applyStep(env, v, sess, &step); err != nil {
			return nil, fmt.Errorf("replay step %d: %w", i, err)
		}
	}
	return result, nil
}

func scriptedPublication(log *zap.Logger, p *replayPublication) *enginetest.Publication {
	pub := &enginetest.Publication{
		Metadata: engine.Metadata{
			Identifier: p.Identifier,
			Title:      engine.LocalizedString{"und": p.Title},
		},
		TOC: toEngineLinks(p.TOC),
	}
	for _, l := range p.Positions {
		el, ok := convert.LocatorToEngine(l)
		if !ok {
			log.Warn("Skipping unusable scripted position", zap.String("href", l.Href))
			continue
		}
		pub.Positions = append(pub.Positions, el)
	}
	return pub
}

func toEngineLinks(links []wire.Link) []engine.Link {
	out := make([]engine.Link, 0, len(links))
	for _, l := range links {
		out = append(out, engine.Link{
			Href:     l.Href,
			Type:     l.Type,
			Title:    l.Title,
			Children: toEngineLinks(l.Children),
		})
	}
	return out
}

func applyStep(env *state.LocalEnv, v *bridge.View, sess *enginetest.Session, step *replayStep) error {
	switch {
	case step.SetLocation != nil:
		v.SetLocation(*step.SetLocation)
	case step.SetPreferences != nil:
		v.SetPreferences(*step.SetPreferences)
	case step.SetDecorations != nil:
		// Scripted decorations may leave the tint out, the configured
		// default applies then.
		decorations := make([]wire.Decoration, 0, len(step.SetDecorations.Decorations))
		for _, d := range step.SetDecorations.Decorations {
			if d.Style.Type != wire.StyleCustom && len(d.Style.Tint) == 0 {
				d.Style.Tint = env.Cfg.Reader.HighlightTint
			}
			decorations = append(decorations, d)
		}
		v.SetDecorations(step.SetDecorations.Group, decorations)
	case step.GoForward:
		v.GoForward()
	case step.GoBackward:
		v.GoBackward()
	case step.EmitLocation != nil:
		el, ok := convert.LocatorToEngine(*step.EmitLocation)
		if !ok {
			return fmt.Errorf("unusable locator '%s'", step.EmitLocation.Href)
		}
		sess.EmitLocation(el)
	case step.EmitSelection != nil:
		if step.EmitSelection.Clear {
			sess.EmitSelection(nil)
			return nil
		}
		el, ok := convert.LocatorToEngine(step.EmitSelection.Locator)
		if !ok {
			return fmt.Errorf("unusable locator '%s'", step.EmitSelection.Locator.Href)
		}
		sess.EmitSelection(&engine.Selection{Locator: el, SelectedText: step.EmitSelection.Text})
	case step.EmitInteraction != nil:
		sess.EmitInteraction(step.EmitInteraction.Group, scriptedInteraction(sess, step.EmitInteraction.Group, step.EmitInteraction.ID))
	case step.EmitSelectionAction != nil:
		el, ok := convert.LocatorToEngine(step.EmitSelectionAction.Locator)
		if !ok {
			return fmt.Errorf("unusable locator '%s'", step.EmitSelectionAction.Locator.Href)
		}
		sess.EmitSelectionAction(step.EmitSelectionAction.ID, engine.Selection{Locator: el, SelectedText: step.EmitSelectionAction.Text})
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

// scriptedInteraction resolves the decoration currently applied under the
// given id so the emitted event carries what the engine would really report.
func scriptedInteraction(sess *enginetest.Session, group, id string) engine.Interaction {
	in := engine.Interaction{Group: group, Decoration: engine.Decoration{ID: id}}
	applied := sess.Applied[group]
	if len(applied) == 0 {
		return in
	}
	for _, d := range applied[len(applied)-1] {
		if d.ID == id {
			in.Decoration = d
			break
		}
	}
	return in
}

func clipSnippet(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
