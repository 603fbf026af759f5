package domain

import "context"

// StateView provides read-only access to one consistent view of element
// positions, activity levels, and derived facts.
type StateView interface {
	// ElementInterval returns the element's effective interval in this view.
	ElementInterval(id string) (Interval, bool)
	// Activity returns the element's activity level, ActivityUnknown when the
	// element has no recorded activity.
	Activity(id string) ActivityLevel
	// FactHeld reports whether a derived fact holds in this view.
	FactHeld(fact string) bool
	// Activities returns a copy of every recorded element activity.
	Activities() map[string]ActivityLevel
}

// Snapshot is an isolated copy-on-write view of the baseline. Writes are
// visible only through the snapshot; nothing reaches the baseline unless the
// store commits the snapshot (baseline rule runs only).
type Snapshot interface {
	StateView
	SetElementInterval(id string, iv Interval)
	SetActivity(id string, level ActivityLevel)
	AssertFact(fact string)
	// Dirty reports whether the snapshot diverges from its baseline.
	Dirty() bool
}

// Store holds the persistent baseline and produces cheap snapshots for
// hypothetical reasoning. Implementations must allow concurrent snapshot
// creation while serializing baseline commits (single-writer discipline).
type Store interface {
	// SetModel installs a validated model and resets baseline state to it.
	SetModel(model Model) error
	// Model returns the installed model.
	Model() Model
	// Snapshot produces an isolated copy-on-write view of the baseline.
	Snapshot() Snapshot
	// Baseline returns a read-only view of the committed baseline.
	Baseline() StateView
	// Commit folds a snapshot produced by this store back into the baseline.
	// Only baseline-mode rule runs commit; simulations always discard.
	Commit(ctx context.Context, snap Snapshot) error
}
