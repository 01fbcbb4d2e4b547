// Package bridge ties the wire-facing reader view to an engine session: it
// sequences when the session may be constructed, buffers properties that
// arrive too early, and forwards engine events back to the host exactly
// once each, converted to wire form.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pubnav/convert"
	"pubnav/engine"
	"pubnav/wire"
)

// Callbacks are the wire events a view reports to its host. Nil entries are
// simply not delivered. All callbacks are invoked on the view's dispatcher.
type Callbacks struct {
	OnLocationChange      func(wire.Locator)
	OnPublicationReady    func(wire.PublicationReady)
	OnDecorationActivated func(wire.DecorationActivated)
	OnSelectionChange     func(wire.SelectionChange)
	OnSelectionAction     func(wire.SelectionActionEvent)
	OnOpenError           func(error)
}

// Option adjusts a view at construction time.
type Option func(*View)

// WithDispatcher replaces the default serial dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(v *View) { v.disp = d }
}

// WithAnimatedNavigation controls whether programmatic navigation animates.
func WithAnimatedNavigation(animated bool) Option {
	return func(v *View) { v.animated = animated }
}

// View is one mounted reader component. It owns at most one engine session
// at a time and is the only stateful entity of the bridge.
type View struct {
	id       uuid.UUID
	order    uint64
	log      *zap.Logger
	eng      engine.Engine
	cb       Callbacks
	reg      *Registry
	disp     Dispatcher
	animated bool

	mu    sync.Mutex
	state State
	// gen invalidates an in-flight build when a file change restarts the
	// sequencer while the engine open call has not returned yet.
	gen uint64

	fileURL string
	// Last values set by the host. They double as the replay buffer for a
	// session that does not exist yet and as the re-apply source after a
	// file change rebuilds the session.
	location    *wire.Locator
	preferences *wire.Preferences
	decorations map[string][]wire.Decoration
	groupOrder  []string
	actions     []wire.SelectionAction
	actionsSet  bool

	session        engine.Session
	cancels        []engine.CancelFunc
	observedGroups map[string]struct{}
}

// NewView creates a reader view bound to the given engine. The registry may
// be nil when the host guarantees it never remounts concurrently.
func NewView(eng engine.Engine, cb Callbacks, reg *Registry, log *zap.Logger, opts ...Option) *View {
	if log == nil {
		log = zap.NewNop()
	}
	v := &View{
		id:       uuid.New(),
		log:      log.Named("view"),
		eng:      eng,
		cb:       cb,
		reg:      reg,
		animated: true,
	}
	v.log = v.log.With(zap.String("view", v.id.String()))
	for _, opt := range opts {
		opt(v)
	}
	if v.disp == nil {
		v.disp = NewSerialDispatcher()
	}
	if reg != nil {
		reg.register(v)
	}
	return v
}

// ID returns the stable identity of this view instance.
func (v *View) ID() uuid.UUID {
	return v.id
}

// CurrentState returns the sequencer state, mostly for diagnostics.
func (v *View) CurrentState() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetFile points the view at a publication. Setting a different file while
// a session is attached tears the session down and restarts the sequencer
// from FileReceived with the new file.
func (v *View) SetFile(url string) {
	if len(url) == 0 {
		v.log.Warn("Ignoring empty publication file")
		return
	}

	v.mu.Lock()
	switch v.state {
	case StateDetached:
		v.mu.Unlock()
		v.log.Warn("Ignoring file on detached view", zap.String("url", url))
		return

	case StateAttached, StateBuilding, StateReadyToBuild:
		if url == v.fileURL {
			v.mu.Unlock()
			return
		}
		v.fileURL = url
		sess, cancels := v.releaseSessionLocked()
		v.state = StateFileReceived
		v.mu.Unlock()
		v.closeSession(sess, cancels)
		v.log.Info("Publication file replaced, restarting", zap.String("url", url))
		v.mu.Lock()

	default:
		v.fileURL = url
		if v.state == StateIdle {
			v.state = StateFileReceived
		}
	}
	v.finishPropLocked()
}

// SetSelectionActions fixes the app-defined entries of the native selection
// menu. The set must be provided (even empty) before the session can be
// constructed and cannot change afterwards.
func (v *View) SetSelectionActions(actions []wire.SelectionAction) {
	v.mu.Lock()
	switch v.state {
	case StateDetached:
		v.mu.Unlock()
		return
	case StateAttached, StateBuilding, StateReadyToBuild:
		v.mu.Unlock()
		v.log.Warn("Selection actions cannot change after the reader session is constructed")
		return
	}
	v.actions = append([]wire.SelectionAction(nil), actions...)
	v.actionsSet = true
	v.finishPropLocked()
}

// finishPropLocked attempts the ReadyToBuild transition and schedules the
// build when it fires. Called with v.mu held; releases it.
func (v *View) finishPropLocked() {
	build := false
	if (v.state == StateIdle || v.state == StateFileReceived) && len(v.fileURL) > 0 && v.actionsSet {
		v.state = StateReadyToBuild
		// Construction is guarded by the Building state so that duplicate
		// triggers (prop set and view attach arriving close together)
		// build at most one session.
		v.state = StateBuilding
		v.gen++
		build = true
	}
	v.mu.Unlock()

	if build {
		if v.reg != nil {
			v.reg.detachStale(v)
		}
		v.disp.Dispatch(v.build)
	}
}

// SetLocation requests navigation. Buffered until a session is attached;
// a request structurally equal to the current position is suppressed so an
// engine-originated location event cannot loop back into navigation.
func (v *View) SetLocation(locator wire.Locator) {
	v.mu.Lock()
	loc := locator
	v.location = &loc
	sess := v.session
	attached := v.state == StateAttached
	v.mu.Unlock()

	if !attached {
		return
	}
	v.goTo(sess, locator)
}

func (v *View) goTo(sess engine.Session, locator wire.Locator) {
	el, ok := convert.LocatorToEngine(locator)
	if !ok {
		v.log.Warn("Ignoring navigation to unusable locator", zap.String("href", locator.Href))
		return
	}
	current := convert.LocatorFromEngine(sess.CurrentLocation())
	if current.Equal(convert.LocatorFromEngine(el)) {
		v.log.Debug("Already at requested location", zap.String("href", locator.Href))
		return
	}
	if !sess.Go(context.Background(), el, v.animated) {
		v.log.Warn("Navigator rejected locator", zap.String("href", locator.Href))
	}
}

// SetPreferences replaces rendering preferences wholesale. Buffered until a
// session is attached.
func (v *View) SetPreferences(prefs wire.Preferences) {
	v.mu.Lock()
	p := prefs
	v.preferences = &p
	sess := v.session
	attached := v.state == StateAttached
	v.mu.Unlock()

	if !attached {
		return
	}
	sess.SubmitPreferences(convert.PreferencesToEngine(prefs))
}

// SetDecorations replaces the named group's decoration list wholesale.
// Buffered until a session is attached. Duplicate ids within a group
// violate the group contract; later duplicates are dropped with a warning.
func (v *View) SetDecorations(group string, decorations []wire.Decoration) {
	cleaned := v.dedupe(group, decorations)

	v.mu.Lock()
	if v.state == StateDetached {
		v.mu.Unlock()
		return
	}
	if v.decorations == nil {
		v.decorations = make(map[string][]wire.Decoration)
	}
	if _, known := v.decorations[group]; !known {
		v.groupOrder = append(v.groupOrder, group)
	}
	v.decorations[group] = cleaned
	sess := v.session
	attached := v.state == StateAttached
	v.mu.Unlock()

	if !attached {
		return
	}
	v.applyGroup(sess, group, cleaned)
}

func (v *View) dedupe(group string, decorations []wire.Decoration) []wire.Decoration {
	out := make([]wire.Decoration, 0, len(decorations))
	seen := make(map[string]struct{}, len(decorations))
	for _, d := range decorations {
		if _, dup := seen[d.ID]; dup {
			v.log.Warn("Dropping decoration with duplicate id",
				zap.String("group", group), zap.String("id", d.ID))
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

// GoForward advances the navigator one step. No-op without a session.
func (v *View) GoForward() {
	v.mu.Lock()
	sess := v.session
	v.mu.Unlock()
	if sess == nil {
		return
	}
	sess.GoForward(context.Background(), v.animated)
}

// GoBackward moves the navigator one step back. No-op without a session.
func (v *View) GoBackward() {
	v.mu.Lock()
	sess := v.session
	v.mu.Unlock()
	if sess == nil {
		return
	}
	sess.GoBackward(context.Background(), v.animated)
}

// Detach tears the view down for good: the dispatcher stops, all
// subscriptions are cancelled and the session is released. No wire callback
// fires once Detach has begun. The view cannot be reused afterwards.
func (v *View) Detach() error {
	v.mu.Lock()
	if v.state == StateDetached {
		v.mu.Unlock()
		return nil
	}
	v.state = StateDetached
	sess, cancels := v.releaseSessionLocked()
	v.mu.Unlock()

	v.disp.Close()
	err := v.closeSession(sess, cancels)
	if v.reg != nil {
		v.reg.unregister(v)
	}
	v.log.Debug("Reader view detached")
	return err
}

// releaseSessionLocked detaches the session bookkeeping from the view and
// returns what must be torn down outside the lock.
func (v *View) releaseSessionLocked() (engine.Session, []engine.CancelFunc) {
	sess := v.session
	cancels := v.cancels
	v.session = nil
	v.cancels = nil
	v.observedGroups = nil
	// Events from the released session may already sit in the dispatcher
	// queue; advancing the generation marks them stale.
	v.gen++
	return sess, cancels
}

func (v *View) closeSession(sess engine.Session, cancels []engine.CancelFunc) error {
	for _, cancel := range cancels {
		cancel()
	}
	if sess == nil {
		return nil
	}
	var err error
	if cerr := sess.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close engine session: %w", cerr))
	}
	return err
}

// dispatch funnels a wire callback through the dispatcher with a staleness
// check at delivery time: an engine event already in flight when its session
// is torn down (detach or file-change restart) is discarded instead of
// reaching the host. gen is the session generation the event belongs to.
func (v *View) dispatch(gen uint64, fn func()) {
	v.disp.Dispatch(func() {
		v.mu.Lock()
		stale := v.state == StateDetached || v.gen != gen
		v.mu.Unlock()
		if !stale {
			fn()
		}
	})
}
