package memory

import (
	"sort"

	"locuscore/pkg/domain"
)

// StateSnapshot captures a point-in-time clone of the baseline state in a
// JSON-friendly shape consumed by the durable store wrappers.
type StateSnapshot struct {
	Intervals  map[string]domain.Interval      `json:"intervals"`
	Activities map[string]domain.ActivityLevel `json:"activities"`
	Facts      []string                        `json:"facts"`
}

// ExportState clones the current baseline generation.
func (s *Store) ExportState() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := StateSnapshot{
		Intervals:  make(map[string]domain.Interval, len(s.state.intervals)),
		Activities: make(map[string]domain.ActivityLevel, len(s.state.activities)),
		Facts:      make([]string, 0, len(s.state.facts)),
	}
	for k, v := range s.state.intervals {
		out.Intervals[k] = v
	}
	for k, v := range s.state.activities {
		out.Activities[k] = v
	}
	for k := range s.state.facts {
		out.Facts = append(out.Facts, k)
	}
	sort.Strings(out.Facts)
	return out
}

// ImportState replaces the baseline generation with the supplied snapshot.
// The installed model is left untouched; durable wrappers hydrate state only,
// since the model arrives from the validator on every session.
func (s *Store) ImportState(snap StateSnapshot) {
	st := newState()
	for k, v := range snap.Intervals {
		st.intervals[k] = v
	}
	for k, v := range snap.Activities {
		st.activities[k] = v
	}
	for _, f := range snap.Facts {
		st.facts[f] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}
