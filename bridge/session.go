package bridge

import (
	"context"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"pubnav/convert"
	"pubnav/engine"
	"pubnav/wire"
)

// build constructs the engine session from the buffered file, initial
// location, preferences and selection actions, then replays buffered
// decorations and publishes readiness. It runs on the dispatcher and is
// triggered at most once per ReadyToBuild transition; the generation
// counter invalidates a build overtaken by a file change while its open
// call was still in flight.
func (v *View) build() {
	v.mu.Lock()
	if v.state != StateBuilding {
		v.mu.Unlock()
		return
	}
	gen := v.gen
	url := v.fileURL
	location := v.location
	preferences := v.preferences
	actions := v.actions
	v.mu.Unlock()

	v.sniffFileType(url)

	opts := engine.OpenOptions{
		SelectionActions: convert.SelectionActionsToEngine(actions),
	}
	if location != nil {
		if el, ok := convert.LocatorToEngine(*location); ok {
			opts.InitialLocation = &el
		} else {
			v.log.Warn("Ignoring unusable initial location", zap.String("href", location.Href))
		}
	}
	if preferences != nil {
		ep := convert.PreferencesToEngine(*preferences)
		opts.Preferences = &ep
	}

	sess, err := v.eng.Open(context.Background(), url, opts)
	if err != nil {
		v.log.Error("Unable to open publication", zap.String("url", url), zap.Error(err))
		v.mu.Lock()
		if v.state == StateBuilding && v.gen == gen {
			v.state = StateFileReceived
		}
		v.mu.Unlock()
		v.dispatch(gen, func() {
			if v.cb.OnOpenError != nil {
				v.cb.OnOpenError(err)
			}
		})
		return
	}

	v.mu.Lock()
	if v.state != StateBuilding || v.gen != gen {
		// Detached or restarted while the open was in flight.
		v.mu.Unlock()
		_ = sess.Close()
		return
	}
	v.session = sess
	v.state = StateAttached
	v.observedGroups = make(map[string]struct{})
	groups := append([]string(nil), v.groupOrder...)
	v.mu.Unlock()

	cancels := []engine.CancelFunc{
		sess.ObserveLocation(func(l engine.Locator) { v.onLocation(gen, l) }),
		sess.ObserveSelection(func(sel *engine.Selection) { v.onSelection(gen, sel) }),
		sess.ObserveSelectionActions(func(id string, sel engine.Selection) { v.onSelectionAction(gen, id, sel) }),
	}
	v.mu.Lock()
	v.cancels = cancels
	v.mu.Unlock()

	// Buffers are re-read after the attach: a value set while the open call
	// was in flight saw no session and parked itself, it must not be lost.
	// The build-entry snapshot already traveled in OpenOptions, so only a
	// buffer replaced since then needs a submit.
	v.mu.Lock()
	latestLocation := v.location
	latestPreferences := v.preferences
	v.mu.Unlock()
	if latestPreferences != preferences && latestPreferences != nil {
		sess.SubmitPreferences(convert.PreferencesToEngine(*latestPreferences))
	}

	// Replay decoration groups buffered before the session existed, in the
	// order they were first set. Lists are re-read at apply time: a group
	// replaced between attach and replay must not be overwritten with a
	// stale buffer (full-list replace makes the re-apply harmless).
	for _, g := range groups {
		v.mu.Lock()
		list := v.decorations[g]
		v.mu.Unlock()
		v.applyGroup(sess, g, list)
	}

	if latestLocation != location && latestLocation != nil {
		v.goTo(sess, *latestLocation)
	}

	v.log.Info("Reader session attached", zap.String("url", url))
	v.publishReady(sess, gen)
}

// sniffFileType inspects the container header of a local publication. The
// engine does its own format handling; this only gives diagnostics a head
// start when the file is not an EPUB at all.
func (v *View) sniffFileType(url string) {
	if strings.Contains(url, "://") && !strings.HasPrefix(url, "file://") {
		return
	}
	path := strings.TrimPrefix(url, "file://")
	t, err := filetype.MatchFile(path)
	if err != nil {
		v.log.Debug("Unable to sniff publication container", zap.String("path", path), zap.Error(err))
		return
	}
	if t == filetype.Unknown {
		v.log.Debug("Unrecognized publication container", zap.String("path", path))
		return
	}
	v.log.Debug("Publication container", zap.String("mime", t.MIME.Value))
	if t.Extension != "epub" && t.Extension != "zip" {
		v.log.Warn("Publication does not look like an EPUB container",
			zap.String("path", path), zap.String("mime", t.MIME.Value))
	}
}

// publishReady fetches table of contents and positions concurrently. Either
// fetch may fail independently and degrades to an empty list; the readiness
// event always carries metadata and fires exactly once per attach.
func (v *View) publishReady(sess engine.Session, gen uint64) {
	var (
		wg        sync.WaitGroup
		toc       []wire.Link
		positions []wire.Locator
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		links, err := sess.TableOfContents(context.Background())
		if err != nil {
			v.log.Warn("Unable to fetch table of contents", zap.Error(err))
			toc = []wire.Link{}
			return
		}
		toc = convert.TableOfContents(links)
	}()
	go func() {
		defer wg.Done()
		list, err := sess.Positions(context.Background())
		if err != nil {
			v.log.Warn("Unable to fetch positions", zap.Error(err))
			positions = []wire.Locator{}
			return
		}
		positions = convert.Positions(list)
	}()
	wg.Wait()

	ready := wire.PublicationReady{
		TableOfContents: toc,
		Positions:       positions,
		Metadata:        convert.Metadata(sess.Metadata()),
	}
	v.dispatch(gen, func() {
		if v.cb.OnPublicationReady != nil {
			v.cb.OnPublicationReady(ready)
		}
	})
}

// applyGroup replaces a group's decorations on the engine and makes sure
// the group's interaction listener is registered at most once per session.
func (v *View) applyGroup(sess engine.Session, group string, decorations []wire.Decoration) {
	converted := make([]engine.Decoration, 0, len(decorations))
	for _, d := range decorations {
		if ed, ok := convert.DecorationToEngine(d, v.log); ok {
			converted = append(converted, ed)
		}
	}
	if err := sess.ApplyDecorations(group, converted); err != nil {
		v.log.Warn("Unable to apply decorations", zap.String("group", group), zap.Error(err))
		return
	}

	v.mu.Lock()
	if v.observedGroups == nil || v.session != sess {
		v.mu.Unlock()
		return
	}
	if _, observed := v.observedGroups[group]; observed {
		v.mu.Unlock()
		return
	}
	v.observedGroups[group] = struct{}{}
	gen := v.gen
	v.mu.Unlock()

	handler := func(interaction engine.Interaction) { v.onInteraction(gen, interaction) }
	if err := sess.ObserveDecorationInteractions(group, handler); err != nil {
		v.log.Warn("Unable to observe decoration interactions", zap.String("group", group), zap.Error(err))
	}
}

func (v *View) onLocation(gen uint64, locator engine.Locator) {
	loc := convert.LocatorFromEngine(locator)
	v.dispatch(gen, func() {
		if v.cb.OnLocationChange != nil {
			v.cb.OnLocationChange(loc)
		}
	})
}

func (v *View) onSelection(gen uint64, sel *engine.Selection) {
	var ev wire.SelectionChange
	if sel != nil {
		loc := convert.LocatorFromEngine(sel.Locator)
		text := sel.SelectedText
		ev = wire.SelectionChange{Locator: &loc, SelectedText: &text}
	}
	v.dispatch(gen, func() {
		if v.cb.OnSelectionChange != nil {
			v.cb.OnSelectionChange(ev)
		}
	})
}

func (v *View) onSelectionAction(gen uint64, actionID string, sel engine.Selection) {
	ev := wire.SelectionActionEvent{
		Locator:      convert.LocatorFromEngine(sel.Locator),
		SelectedText: sel.SelectedText,
		ActionID:     actionID,
	}
	v.dispatch(gen, func() {
		if v.cb.OnSelectionAction != nil {
			v.cb.OnSelectionAction(ev)
		}
	})
}

func (v *View) onInteraction(gen uint64, interaction engine.Interaction) {
	ev := convert.InteractionFromEngine(interaction)
	v.dispatch(gen, func() {
		if v.cb.OnDecorationActivated != nil {
			v.cb.OnDecorationActivated(ev)
		}
	})
}
