// Package memory provides the in-memory baseline state store used for
// reasoning sessions and as the canonical implementation wrapped by the
// durable backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"locuscore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.Store = (*Store)(nil)

// state is one immutable generation of baseline facts. Commits install a new
// generation instead of mutating the current one, so snapshots taken earlier
// keep reading a consistent view without locking.
type state struct {
	intervals  map[string]domain.Interval
	activities map[string]domain.ActivityLevel
	facts      map[string]struct{}
}

func newState() *state {
	return &state{
		intervals:  make(map[string]domain.Interval),
		activities: make(map[string]domain.ActivityLevel),
		facts:      make(map[string]struct{}),
	}
}

func (st *state) clone() *state {
	next := &state{
		intervals:  make(map[string]domain.Interval, len(st.intervals)),
		activities: make(map[string]domain.ActivityLevel, len(st.activities)),
		facts:      make(map[string]struct{}, len(st.facts)),
	}
	for k, v := range st.intervals {
		next.intervals[k] = v
	}
	for k, v := range st.activities {
		next.activities[k] = v
	}
	for k := range st.facts {
		next.facts[k] = struct{}{}
	}
	return next
}

// Store holds the persistent baseline: the immutable model plus the current
// generation of element positions, activity levels, and derived facts.
// Snapshot creation is concurrent; baseline commits are single-writer.
type Store struct {
	mu    sync.RWMutex
	model domain.Model
	state *state
}

// NewStore constructs an empty in-memory baseline store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// SetModel validates and installs a model, resetting baseline state to the
// model's declared element positions with no recorded activity.
func (s *Store) SetModel(model domain.Model) error {
	if err := model.Validate(); err != nil {
		return err
	}
	st := newState()
	for _, el := range model.Elements {
		span, err := model.ElementSpan(el.ID)
		if err != nil {
			return err
		}
		st.intervals[el.ID] = span
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = cloneModel(model)
	s.state = st
	return nil
}

// Model returns the installed model.
func (s *Store) Model() domain.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneModel(s.model)
}

// Snapshot produces a copy-on-write view over the current baseline
// generation. Writes land in overlay maps; the shared generation is never
// touched.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &snapshot{base: s.state}
}

// Baseline returns a read-only view of the committed baseline.
func (s *Store) Baseline() domain.StateView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &view{state: s.state}
}

// Commit folds a snapshot taken from this store back into the baseline by
// installing a new state generation. Committing a stale snapshot (the
// baseline advanced since it was taken) is an error; simulations never
// commit, so staleness only arises from interleaved baseline runs.
func (s *Store) Commit(_ context.Context, snap domain.Snapshot) error {
	own, ok := snap.(*snapshot)
	if !ok {
		return fmt.Errorf("commit: snapshot does not belong to this store")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if own.base != s.state {
		return fmt.Errorf("commit: snapshot is stale, baseline advanced since it was taken")
	}
	if !own.Dirty() {
		return nil
	}
	next := s.state.clone()
	for k, v := range own.intervals {
		next.intervals[k] = v
	}
	for k, v := range own.activities {
		next.activities[k] = v
	}
	for k := range own.facts {
		next.facts[k] = struct{}{}
	}
	s.state = next
	return nil
}

func cloneModel(m domain.Model) domain.Model {
	cp := domain.Model{
		Loci:     append([]domain.Locus(nil), m.Loci...),
		Elements: append([]domain.Element(nil), m.Elements...),
		Rules:    append([]domain.Rule(nil), m.Rules...),
	}
	for i, l := range cp.Loci {
		cp.Loci[i].ElementIDs = append([]string(nil), l.ElementIDs...)
	}
	for i, e := range cp.Elements {
		if e.Coords != nil {
			coords := *e.Coords
			cp.Elements[i].Coords = &coords
		}
	}
	return cp
}
