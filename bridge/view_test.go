package bridge

import (
	"context"
	"errors"
	"testing"

	"pubnav/engine"
	"pubnav/engine/enginetest"
	"pubnav/wire"
)

const bookURL = "file:///books/moby-dick.epub"

func fptr(f float64) *float64 { return &f }

func scriptedEngine() *enginetest.Engine {
	eng := enginetest.New()
	eng.Add(bookURL, &enginetest.Publication{
		Metadata: engine.Metadata{
			Identifier: "urn:isbn:9780000000000",
			Title:      engine.LocalizedString{"und": "Moby-Dick"},
		},
		TOC: []engine.Link{
			{Href: "OEBPS/ch1.xhtml", Title: "Chapter 1"},
		},
		Positions: []engine.Locator{
			{Href: "OEBPS/ch1.xhtml", Locations: engine.Locations{TotalProgression: fptr(0)}},
		},
	})
	return eng
}

func newTestView(eng engine.Engine, cb Callbacks) *View {
	return NewView(eng, cb, nil, nil, WithDispatcher(&DirectDispatcher{}))
}

func sampleLocator(href string) wire.Locator {
	return wire.Locator{
		Href:      href,
		Type:      "application/xhtml+xml",
		Locations: wire.Locations{Progression: fptr(0.1)},
	}
}

func TestViewBuildsWhenPropsComplete(t *testing.T) {
	t.Run("file then actions", func(t *testing.T) {
		eng := scriptedEngine()
		v := newTestView(eng, Callbacks{})
		v.SetFile(bookURL)
		if eng.OpenCount() != 0 {
			t.Fatal("session must not be constructed before selection actions arrive")
		}
		v.SetSelectionActions(nil)
		if eng.OpenCount() != 1 {
			t.Fatalf("open count = %d, want 1", eng.OpenCount())
		}
		if v.CurrentState() != StateAttached {
			t.Errorf("state = %v", v.CurrentState())
		}
	})

	t.Run("actions then file", func(t *testing.T) {
		eng := scriptedEngine()
		v := newTestView(eng, Callbacks{})
		v.SetSelectionActions([]wire.SelectionAction{{ID: "copy", Label: "Copy"}})
		if eng.OpenCount() != 0 {
			t.Fatal("session must not be constructed before the file arrives")
		}
		v.SetFile(bookURL)
		if eng.OpenCount() != 1 {
			t.Fatalf("open count = %d, want 1", eng.OpenCount())
		}
		sess := eng.Sessions()[0]
		if len(sess.Opts.SelectionActions) != 1 || sess.Opts.SelectionActions[0].ID != "copy" {
			t.Errorf("selection actions = %+v", sess.Opts.SelectionActions)
		}
	})
}

func TestViewBuffersPropsBeforeAttach(t *testing.T) {
	eng := scriptedEngine()
	v := newTestView(eng, Callbacks{})

	v.SetLocation(sampleLocator("/OEBPS/ch1.xhtml"))
	prefs := wire.Preferences{FontSize: fptr(1.2)}
	v.SetPreferences(prefs)
	v.SetDecorations("highlights", []wire.Decoration{{
		ID:      "h-1",
		Locator: sampleLocator("/OEBPS/ch1.xhtml"),
		Style:   wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
	}})
	if eng.OpenCount() != 0 {
		t.Fatal("properties alone must not construct a session")
	}

	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	sess := eng.Sessions()[0]
	if sess.Opts.InitialLocation == nil || sess.Opts.InitialLocation.Href != "OEBPS/ch1.xhtml" {
		t.Errorf("initial location = %+v", sess.Opts.InitialLocation)
	}
	if sess.Opts.Preferences == nil || sess.Opts.Preferences.FontSize == nil || *sess.Opts.Preferences.FontSize != 1.2 {
		t.Errorf("preferences = %+v", sess.Opts.Preferences)
	}
	if len(sess.Applied["highlights"]) != 1 || len(sess.Applied["highlights"][0]) != 1 {
		t.Fatalf("applied = %+v", sess.Applied)
	}
	if sess.RegisteredGroups["highlights"] != 1 {
		t.Errorf("interaction registrations = %d, want 1", sess.RegisteredGroups["highlights"])
	}
}

func TestDecorationGroupListenerRegisteredOnce(t *testing.T) {
	eng := scriptedEngine()
	v := newTestView(eng, Callbacks{})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)
	sess := eng.Sessions()[0]

	list := []wire.Decoration{{
		ID:      "h-1",
		Locator: sampleLocator("/OEBPS/ch1.xhtml"),
		Style:   wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
	}}
	v.SetDecorations("highlights", list)
	v.SetDecorations("highlights", append(list, wire.Decoration{
		ID:      "h-2",
		Locator: sampleLocator("/OEBPS/ch1.xhtml"),
		Style:   wire.DecorationStyle{Type: wire.StyleUnderline, Tint: "red"},
	}))

	if got := len(sess.Applied["highlights"]); got != 2 {
		t.Errorf("apply calls = %d, want 2", got)
	}
	if sess.RegisteredGroups["highlights"] != 1 {
		t.Errorf("interaction registrations = %d, want 1", sess.RegisteredGroups["highlights"])
	}
}

func TestDuplicateDecorationIDsDropped(t *testing.T) {
	eng := scriptedEngine()
	v := newTestView(eng, Callbacks{})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)
	sess := eng.Sessions()[0]

	v.SetDecorations("highlights", []wire.Decoration{
		{ID: "h-1", Locator: sampleLocator("/OEBPS/ch1.xhtml"), Style: wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"}},
		{ID: "h-1", Locator: sampleLocator("/OEBPS/ch1.xhtml"), Style: wire.DecorationStyle{Type: wire.StyleUnderline, Tint: "red"}},
	})
	if got := len(sess.Applied["highlights"][0]); got != 1 {
		t.Errorf("applied decorations = %d, want 1 after duplicate drop", got)
	}
}

func TestNavigationSuppressedAtCurrentLocation(t *testing.T) {
	eng := scriptedEngine()
	v := newTestView(eng, Callbacks{})
	v.SetLocation(sampleLocator("/OEBPS/ch1.xhtml"))
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)
	sess := eng.Sessions()[0]

	v.SetLocation(sampleLocator("/OEBPS/ch1.xhtml"))
	if len(sess.GoCalls) != 0 {
		t.Fatalf("go calls = %d, navigation to the current location must be suppressed", len(sess.GoCalls))
	}

	v.SetLocation(sampleLocator("/OEBPS/ch2.xhtml"))
	if len(sess.GoCalls) != 1 {
		t.Fatalf("go calls = %d, want 1", len(sess.GoCalls))
	}
	if sess.GoCalls[0].Href != "OEBPS/ch2.xhtml" {
		t.Errorf("href = %q", sess.GoCalls[0].Href)
	}
}

func TestFileChangeRestartsSession(t *testing.T) {
	eng := scriptedEngine()
	other := "file:///books/other.epub"
	eng.Add(other, &enginetest.Publication{
		Metadata: engine.Metadata{Title: engine.LocalizedString{"und": "Other"}},
	})

	v := newTestView(eng, Callbacks{})
	v.SetPreferences(wire.Preferences{FontSize: fptr(1.5)})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	// Same file again is a no-op.
	v.SetFile(bookURL)
	if eng.OpenCount() != 1 {
		t.Fatalf("open count = %d after redundant SetFile, want 1", eng.OpenCount())
	}

	v.SetFile(other)
	sessions := eng.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("open count = %d, want 2", len(sessions))
	}
	if !sessions[0].Closed {
		t.Error("previous session must be closed on file change")
	}
	if sessions[1].Closed {
		t.Error("replacement session must stay open")
	}
	// Buffered preferences carry over to the replacement session.
	if sessions[1].Opts.Preferences == nil || *sessions[1].Opts.Preferences.FontSize != 1.5 {
		t.Errorf("preferences = %+v", sessions[1].Opts.Preferences)
	}
	if v.CurrentState() != StateAttached {
		t.Errorf("state = %v", v.CurrentState())
	}
}

func TestSelectionActionsFrozenAfterBuild(t *testing.T) {
	eng := scriptedEngine()
	v := newTestView(eng, Callbacks{})
	v.SetSelectionActions([]wire.SelectionAction{{ID: "copy", Label: "Copy"}})
	v.SetFile(bookURL)

	v.SetSelectionActions([]wire.SelectionAction{{ID: "share", Label: "Share"}})
	if eng.OpenCount() != 1 {
		t.Fatalf("open count = %d, late selection actions must not rebuild", eng.OpenCount())
	}
	sess := eng.Sessions()[0]
	if len(sess.Opts.SelectionActions) != 1 || sess.Opts.SelectionActions[0].ID != "copy" {
		t.Errorf("selection actions = %+v", sess.Opts.SelectionActions)
	}
}

func TestOpenErrorReported(t *testing.T) {
	eng := scriptedEngine()
	boom := errors.New("container is damaged")
	eng.FailOpen(boom)

	var reported error
	v := newTestView(eng, Callbacks{OnOpenError: func(err error) { reported = err }})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	if !errors.Is(reported, boom) {
		t.Errorf("reported = %v", reported)
	}
	if v.CurrentState() != StateFileReceived {
		t.Errorf("state = %v, want FileReceived so a new file can retry", v.CurrentState())
	}
	if eng.OpenCount() != 0 {
		t.Errorf("open count = %d", eng.OpenCount())
	}
}

func TestPublicationReady(t *testing.T) {
	eng := scriptedEngine()
	var ready *wire.PublicationReady
	v := newTestView(eng, Callbacks{OnPublicationReady: func(ev wire.PublicationReady) { ready = &ev }})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	if ready == nil {
		t.Fatal("readiness event did not fire")
	}
	if ready.Metadata.Title != "Moby-Dick" {
		t.Errorf("title = %q", ready.Metadata.Title)
	}
	if len(ready.TableOfContents) != 1 || ready.TableOfContents[0].Title != "Chapter 1" {
		t.Errorf("toc = %+v", ready.TableOfContents)
	}
	if len(ready.Positions) != 1 {
		t.Errorf("positions = %+v", ready.Positions)
	}
}

func TestPublicationReadyDegradesPerFetch(t *testing.T) {
	eng := enginetest.New()
	eng.Add(bookURL, &enginetest.Publication{
		Metadata: engine.Metadata{Title: engine.LocalizedString{"und": "Moby-Dick"}},
		TOCErr:   errors.New("nav document is broken"),
		Positions: []engine.Locator{
			{Href: "OEBPS/ch1.xhtml"},
		},
	})

	var ready *wire.PublicationReady
	v := newTestView(eng, Callbacks{OnPublicationReady: func(ev wire.PublicationReady) { ready = &ev }})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	if ready == nil {
		t.Fatal("readiness event did not fire")
	}
	if ready.TableOfContents == nil || len(ready.TableOfContents) != 0 {
		t.Errorf("toc = %#v, want empty list", ready.TableOfContents)
	}
	if len(ready.Positions) != 1 {
		t.Errorf("positions = %+v, the healthy fetch must survive", ready.Positions)
	}
	if ready.Metadata.Title != "Moby-Dick" {
		t.Errorf("metadata = %+v", ready.Metadata)
	}
}

func TestEventForwarding(t *testing.T) {
	eng := scriptedEngine()

	var (
		locations  []wire.Locator
		selections []wire.SelectionChange
		actions    []wire.SelectionActionEvent
		activated  []wire.DecorationActivated
	)
	v := newTestView(eng, Callbacks{
		OnLocationChange:      func(l wire.Locator) { locations = append(locations, l) },
		OnSelectionChange:     func(s wire.SelectionChange) { selections = append(selections, s) },
		OnSelectionAction:     func(a wire.SelectionActionEvent) { actions = append(actions, a) },
		OnDecorationActivated: func(d wire.DecorationActivated) { activated = append(activated, d) },
	})
	v.SetSelectionActions([]wire.SelectionAction{{ID: "copy", Label: "Copy"}})
	v.SetFile(bookURL)
	v.SetDecorations("highlights", []wire.Decoration{{
		ID:      "h-1",
		Locator: sampleLocator("/OEBPS/ch1.xhtml"),
		Style:   wire.DecorationStyle{Type: wire.StyleHighlight, Tint: "#FFFF00"},
	}})
	sess := eng.Sessions()[0]

	sess.EmitLocation(engine.Locator{Href: "OEBPS/ch2.xhtml", Locations: engine.Locations{Progression: fptr(0.5)}})
	if len(locations) != 1 || locations[0].Href != "OEBPS/ch2.xhtml" {
		t.Errorf("locations = %+v", locations)
	}

	sess.EmitSelection(&engine.Selection{
		Locator:      engine.Locator{Href: "OEBPS/ch2.xhtml"},
		SelectedText: "the whale",
	})
	sess.EmitSelection(nil)
	if len(selections) != 2 {
		t.Fatalf("selections = %+v", selections)
	}
	if selections[0].SelectedText == nil || *selections[0].SelectedText != "the whale" {
		t.Errorf("selection = %+v", selections[0])
	}
	if selections[1].Locator != nil || selections[1].SelectedText != nil {
		t.Errorf("cleared selection = %+v", selections[1])
	}

	sess.EmitSelectionAction("copy", engine.Selection{
		Locator:      engine.Locator{Href: "OEBPS/ch2.xhtml"},
		SelectedText: "the whale",
	})
	if len(actions) != 1 || actions[0].ActionID != "copy" || actions[0].SelectedText != "the whale" {
		t.Errorf("actions = %+v", actions)
	}

	sess.EmitInteraction("highlights", engine.Interaction{
		Decoration: engine.Decoration{
			ID:    "h-1",
			Style: engine.HighlightStyle{Tint: engine.Color{A: 0xFF, R: 0xFF, G: 0xFF}},
		},
		Group: "highlights",
		Rect:  &engine.Rect{X: 10, Y: 20, Width: 30, Height: 40},
	})
	if len(activated) != 1 || activated[0].Decoration.ID != "h-1" || activated[0].Group != "highlights" {
		t.Errorf("activated = %+v", activated)
	}
}

func TestDetach(t *testing.T) {
	eng := scriptedEngine()
	var locations int
	v := newTestView(eng, Callbacks{
		OnLocationChange: func(wire.Locator) { locations++ },
	})
	v.SetSelectionActions(nil)
	v.SetFile(bookURL)
	sess := eng.Sessions()[0]

	if err := v.Detach(); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if !sess.Closed {
		t.Error("session must be closed on detach")
	}
	if v.CurrentState() != StateDetached {
		t.Errorf("state = %v", v.CurrentState())
	}

	sess.EmitLocation(engine.Locator{Href: "OEBPS/ch2.xhtml"})
	if locations != 0 {
		t.Error("no callback may fire after detach")
	}

	// Detach is idempotent and the view stays inert.
	if err := v.Detach(); err != nil {
		t.Fatalf("second detach: %v", err)
	}
	v.SetFile(bookURL)
	if eng.OpenCount() != 1 {
		t.Errorf("open count = %d, detached view must ignore props", eng.OpenCount())
	}
}

func TestRegistryForceDetachesStaleView(t *testing.T) {
	eng := scriptedEngine()
	reg := NewRegistry(nil)

	first := NewView(eng, Callbacks{}, reg, nil, WithDispatcher(&DirectDispatcher{}))
	first.SetSelectionActions(nil)
	first.SetFile(bookURL)
	firstSess := eng.Sessions()[0]

	second := NewView(eng, Callbacks{}, reg, nil, WithDispatcher(&DirectDispatcher{}))
	second.SetSelectionActions(nil)
	second.SetFile(bookURL)

	if first.CurrentState() != StateDetached {
		t.Error("older sibling must be force-detached when a newer view builds")
	}
	if !firstSess.Closed {
		t.Error("stale session must be closed")
	}
	if second.CurrentState() != StateAttached {
		t.Errorf("new view state = %v", second.CurrentState())
	}
	if got := reg.Live(); got != 1 {
		t.Errorf("live views = %d, want 1", got)
	}
}

// gatedEngine parks Open on a channel so a test can deliver props while the
// open call is still in flight.
type gatedEngine struct {
	inner   engine.Engine
	entered chan struct{}
	release chan struct{}
}

func newGatedEngine(inner engine.Engine) *gatedEngine {
	return &gatedEngine{inner: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (e *gatedEngine) Open(ctx context.Context, url string, opts engine.OpenOptions) (engine.Session, error) {
	close(e.entered)
	<-e.release
	return e.inner.Open(ctx, url, opts)
}

func TestPropsDuringBuildReachSession(t *testing.T) {
	eng := scriptedEngine()
	gated := newGatedEngine(eng)

	ready := make(chan struct{})
	v := NewView(gated, Callbacks{
		OnPublicationReady: func(wire.PublicationReady) { close(ready) },
	}, nil, nil)
	defer v.Detach()

	v.SetSelectionActions(nil)
	v.SetFile(bookURL)

	<-gated.entered
	v.SetPreferences(wire.Preferences{FontSize: fptr(1.4)})
	v.SetLocation(sampleLocator("/OEBPS/ch2.xhtml"))
	close(gated.release)

	<-ready
	sess := eng.Sessions()[0]
	if len(sess.Submitted) != 1 || sess.Submitted[0].FontSize == nil || *sess.Submitted[0].FontSize != 1.4 {
		t.Errorf("submitted = %+v, preferences set while the open was in flight must reach the session", sess.Submitted)
	}
	if len(sess.GoCalls) != 1 || sess.GoCalls[0].Href != "OEBPS/ch2.xhtml" {
		t.Errorf("go calls = %+v, location set while the open was in flight must navigate", sess.GoCalls)
	}
}

// manualDispatcher queues callbacks until pumped, standing in for a host
// event loop that drains at its own pace.
type manualDispatcher struct {
	queue  []func()
	closed bool
}

func (d *manualDispatcher) Dispatch(fn func()) {
	if d.closed {
		return
	}
	d.queue = append(d.queue, fn)
}

func (d *manualDispatcher) Close() {
	d.closed = true
	d.queue = nil
}

func (d *manualDispatcher) pump() {
	for len(d.queue) > 0 {
		fn := d.queue[0]
		d.queue = d.queue[1:]
		fn()
	}
}

func TestStaleSessionEventsDroppedAfterFileChange(t *testing.T) {
	eng := scriptedEngine()
	other := "file:///books/other.epub"
	eng.Add(other, &enginetest.Publication{
		Metadata: engine.Metadata{Title: engine.LocalizedString{"und": "Other"}},
	})

	var locations []wire.Locator
	d := &manualDispatcher{}
	v := NewView(eng, Callbacks{
		OnLocationChange: func(loc wire.Locator) { locations = append(locations, loc) },
	}, nil, nil, WithDispatcher(d))

	v.SetSelectionActions(nil)
	v.SetFile(bookURL)
	d.pump()
	sess := eng.Sessions()[0]

	// The location event is converted and queued, then the file changes
	// before the host loop drains the queue.
	sess.EmitLocation(engine.Locator{Href: "OEBPS/ch2.xhtml"})
	v.SetFile(other)
	d.pump()

	if len(locations) != 0 {
		t.Fatalf("locations = %+v, events from a replaced session must not reach the host", locations)
	}
	replacement := eng.Sessions()[1]
	replacement.EmitLocation(engine.Locator{Href: "OEBPS/intro.xhtml"})
	d.pump()
	if len(locations) != 1 || locations[0].Href != "OEBPS/intro.xhtml" {
		t.Errorf("locations = %+v", locations)
	}
}
