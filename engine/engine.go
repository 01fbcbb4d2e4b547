// Package engine declares the contract this module expects from the
// underlying publication engine: asset retrieval, parsing, rendering and
// pagination all live behind these interfaces and are never reimplemented
// here. The bridge only converts values in and out and sequences calls.
package engine

import "context"

// Engine opens publications. One engine may serve many sessions.
type Engine interface {
	// Open retrieves and parses the publication at url and constructs a
	// navigator session for it. Options that can only be set at
	// construction time (initial location, selection actions) travel in
	// opts.
	Open(ctx context.Context, url string, opts OpenOptions) (Session, error)
}

// OpenOptions carries construction-time session parameters.
type OpenOptions struct {
	// InitialLocation restores a previous reading position. Nil starts at
	// the beginning of the publication.
	InitialLocation *Locator
	// Preferences submitted before the first render. Nil keeps defaults.
	Preferences *Preferences
	// SelectionActions registers app-defined entries of the native
	// text-selection menu. The set cannot be changed after construction.
	SelectionActions []SelectionAction
}

// CancelFunc releases a single event observation.
type CancelFunc func()

// Session is one attached navigator owned by exactly one reader view.
// All observation callbacks may be invoked from arbitrary goroutines; the
// caller is responsible for marshaling them where it needs them.
type Session interface {
	// Go navigates to the given locator. Reports whether the request was
	// accepted by the navigator.
	Go(ctx context.Context, locator Locator, animated bool) bool
	GoForward(ctx context.Context, animated bool) bool
	GoBackward(ctx context.Context, animated bool) bool

	// CurrentLocation returns the most recent position reported by the
	// navigator.
	CurrentLocation() Locator

	// SubmitPreferences replaces rendering preferences. Navigator types
	// that do not support a submitted preference ignore it silently.
	SubmitPreferences(prefs Preferences)

	// ApplyDecorations replaces the named group's decorations wholesale.
	ApplyDecorations(group string, decorations []Decoration) error

	// ObserveDecorationInteractions registers a callback for user
	// interaction with decorations of the named group. Registration is
	// expected at most once per group per session.
	ObserveDecorationInteractions(group string, fn func(Interaction)) error

	// ObserveLocation registers a callback for position changes.
	ObserveLocation(fn func(Locator)) CancelFunc

	// ObserveSelection registers a callback for text selection changes.
	// The callback receives nil when the selection is cleared.
	ObserveSelection(fn func(*Selection)) CancelFunc

	// ObserveSelectionActions registers a callback invoked when one of the
	// construction-time selection actions is triggered from the native
	// menu.
	ObserveSelectionActions(fn func(actionID string, sel Selection)) CancelFunc

	// TableOfContents and Positions may require asynchronous computation
	// inside the engine and can fail independently of each other.
	TableOfContents(ctx context.Context) ([]Link, error)
	Positions(ctx context.Context) ([]Locator, error)

	// Metadata is available as soon as the session exists.
	Metadata() Metadata

	// Close releases the navigator and all engine-side resources. No
	// observation callback fires after Close returns.
	Close() error
}
