// Package enginetest provides a scripted in-memory publication engine. It
// records every call a session receives and lets the caller emit
// location/selection/interaction events on demand, which is what the bridge
// tests and the replay tooling need from an engine.
package enginetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pubnav/engine"
)

// Publication describes one openable publication.
type Publication struct {
	Metadata  engine.Metadata
	TOC       []engine.Link
	Positions []engine.Locator

	// Non-nil values make the corresponding fetch fail.
	TOCErr       error
	PositionsErr error
}

// Engine serves scripted publications by URL.
type Engine struct {
	mu           sync.Mutex
	publications map[string]*Publication
	openErr      error
	sessions     []*Session
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{publications: make(map[string]*Publication)}
}

// Add registers a publication under the given URL.
func (e *Engine) Add(url string, pub *Publication) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publications[url] = pub
}

// FailOpen makes every subsequent Open return err.
func (e *Engine) FailOpen(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErr = err
}

// Sessions returns every session this engine has opened, in open order.
func (e *Engine) Sessions() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Session(nil), e.sessions...)
}

// OpenCount returns how many sessions were constructed.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

func (e *Engine) Open(ctx context.Context, url string, opts engine.OpenOptions) (engine.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.openErr != nil {
		return nil, e.openErr
	}
	pub, ok := e.publications[url]
	if !ok {
		return nil, fmt.Errorf("no publication at %s", url)
	}

	s := &Session{
		pub:              pub,
		Opts:             opts,
		interactionFns:   make(map[string]func(engine.Interaction)),
		RegisteredGroups: make(map[string]int),
		Applied:          make(map[string][][]engine.Decoration),
	}
	if opts.InitialLocation != nil {
		s.current = *opts.InitialLocation
	}
	if opts.Preferences != nil {
		s.Submitted = append(s.Submitted, *opts.Preferences)
	}
	e.sessions = append(e.sessions, s)
	return s, nil
}

// Session records everything the bridge does to it.
type Session struct {
	mu  sync.Mutex
	pub *Publication

	Opts engine.OpenOptions

	current engine.Locator

	// Call records inspected by tests.
	GoCalls       []engine.Locator
	ForwardCalls  int
	BackwardCalls int
	Submitted     []engine.Preferences
	// Applied keeps every ApplyDecorations call per group, in order.
	Applied map[string][][]engine.Decoration
	// RegisteredGroups counts interaction listener registrations.
	RegisteredGroups map[string]int
	Closed           bool

	interactionFns map[string]func(engine.Interaction)
	locationFns    []func(engine.Locator)
	selectionFns   []func(*engine.Selection)
	actionFns      []func(string, engine.Selection)
}

var _ engine.Session = (*Session)(nil)

func (s *Session) Go(_ context.Context, locator engine.Locator, _ bool) bool {
	s.mu.Lock()
	if s.Closed {
		s.mu.Unlock()
		return false
	}
	s.GoCalls = append(s.GoCalls, locator)
	s.current = locator
	fns := append(([]func(engine.Locator))(nil), s.locationFns...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(locator)
	}
	return true
}

func (s *Session) GoForward(_ context.Context, _ bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return false
	}
	s.ForwardCalls++
	return true
}

func (s *Session) GoBackward(_ context.Context, _ bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return false
	}
	s.BackwardCalls++
	return true
}

func (s *Session) CurrentLocation() engine.Locator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) SubmitPreferences(prefs engine.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return
	}
	s.Submitted = append(s.Submitted, prefs)
}

func (s *Session) ApplyDecorations(group string, decorations []engine.Decoration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return errors.New("session is closed")
	}
	s.Applied[group] = append(s.Applied[group], append([]engine.Decoration(nil), decorations...))
	return nil
}

func (s *Session) ObserveDecorationInteractions(group string, fn func(engine.Interaction)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return errors.New("session is closed")
	}
	s.RegisteredGroups[group]++
	s.interactionFns[group] = fn
	return nil
}

func (s *Session) ObserveLocation(fn func(engine.Locator)) engine.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationFns = append(s.locationFns, fn)
	idx := len(s.locationFns) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.locationFns[idx] = func(engine.Locator) {}
	}
}

func (s *Session) ObserveSelection(fn func(*engine.Selection)) engine.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectionFns = append(s.selectionFns, fn)
	idx := len(s.selectionFns) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.selectionFns[idx] = func(*engine.Selection) {}
	}
}

func (s *Session) ObserveSelectionActions(fn func(string, engine.Selection)) engine.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionFns = append(s.actionFns, fn)
	idx := len(s.actionFns) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.actionFns[idx] = func(string, engine.Selection) {}
	}
}

func (s *Session) TableOfContents(ctx context.Context) ([]engine.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pub.TOCErr != nil {
		return nil, s.pub.TOCErr
	}
	return append([]engine.Link(nil), s.pub.TOC...), nil
}

func (s *Session) Positions(ctx context.Context) ([]engine.Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pub.PositionsErr != nil {
		return nil, s.pub.PositionsErr
	}
	return append([]engine.Locator(nil), s.pub.Positions...), nil
}

func (s *Session) Metadata() engine.Metadata {
	return s.pub.Metadata
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	s.locationFns = nil
	s.selectionFns = nil
	s.actionFns = nil
	s.interactionFns = make(map[string]func(engine.Interaction))
	return nil
}

// EmitLocation simulates the navigator moving to a new position.
func (s *Session) EmitLocation(locator engine.Locator) {
	s.mu.Lock()
	if s.Closed {
		s.mu.Unlock()
		return
	}
	s.current = locator
	fns := append(([]func(engine.Locator))(nil), s.locationFns...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(locator)
	}
}

// EmitSelection simulates a selection change; nil clears the selection.
func (s *Session) EmitSelection(sel *engine.Selection) {
	s.mu.Lock()
	fns := append(([]func(*engine.Selection))(nil), s.selectionFns...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sel)
	}
}

// EmitInteraction simulates a user interaction with a decoration of the
// given group. It is discarded when no listener was registered, matching a
// real engine.
func (s *Session) EmitInteraction(group string, interaction engine.Interaction) {
	s.mu.Lock()
	fn := s.interactionFns[group]
	s.mu.Unlock()

	if fn != nil {
		fn(interaction)
	}
}

// EmitSelectionAction simulates invocation of a selection menu entry.
func (s *Session) EmitSelectionAction(actionID string, sel engine.Selection) {
	s.mu.Lock()
	fns := append(([]func(string, engine.Selection))(nil), s.actionFns...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(actionID, sel)
	}
}
