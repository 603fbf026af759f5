package memory

import "locuscore/pkg/domain"

var (
	_ domain.Snapshot  = (*snapshot)(nil)
	_ domain.StateView = (*view)(nil)
)

// snapshot is a copy-on-write overlay over one immutable baseline generation.
type snapshot struct {
	base       *state
	intervals  map[string]domain.Interval
	activities map[string]domain.ActivityLevel
	facts      map[string]struct{}
}

func (sn *snapshot) ElementInterval(id string) (domain.Interval, bool) {
	if iv, ok := sn.intervals[id]; ok {
		return iv, true
	}
	iv, ok := sn.base.intervals[id]
	return iv, ok
}

func (sn *snapshot) Activity(id string) domain.ActivityLevel {
	if lvl, ok := sn.activities[id]; ok {
		return lvl
	}
	if lvl, ok := sn.base.activities[id]; ok {
		return lvl
	}
	return domain.ActivityUnknown
}

func (sn *snapshot) FactHeld(fact string) bool {
	if _, ok := sn.facts[fact]; ok {
		return true
	}
	_, ok := sn.base.facts[fact]
	return ok
}

func (sn *snapshot) Activities() map[string]domain.ActivityLevel {
	out := make(map[string]domain.ActivityLevel, len(sn.base.activities)+len(sn.activities))
	for k, v := range sn.base.activities {
		out[k] = v
	}
	for k, v := range sn.activities {
		out[k] = v
	}
	return out
}

func (sn *snapshot) SetElementInterval(id string, iv domain.Interval) {
	if sn.intervals == nil {
		sn.intervals = make(map[string]domain.Interval)
	}
	sn.intervals[id] = iv
}

func (sn *snapshot) SetActivity(id string, level domain.ActivityLevel) {
	if sn.activities == nil {
		sn.activities = make(map[string]domain.ActivityLevel)
	}
	sn.activities[id] = level
}

func (sn *snapshot) AssertFact(fact string) {
	if sn.facts == nil {
		sn.facts = make(map[string]struct{})
	}
	sn.facts[fact] = struct{}{}
}

func (sn *snapshot) Dirty() bool {
	return len(sn.intervals) > 0 || len(sn.activities) > 0 || len(sn.facts) > 0
}

// view is a read-only adapter over one baseline generation.
type view struct {
	state *state
}

func (v *view) ElementInterval(id string) (domain.Interval, bool) {
	iv, ok := v.state.intervals[id]
	return iv, ok
}

func (v *view) Activity(id string) domain.ActivityLevel {
	if lvl, ok := v.state.activities[id]; ok {
		return lvl
	}
	return domain.ActivityUnknown
}

func (v *view) FactHeld(fact string) bool {
	_, ok := v.state.facts[fact]
	return ok
}

func (v *view) Activities() map[string]domain.ActivityLevel {
	out := make(map[string]domain.ActivityLevel, len(v.state.activities))
	for k, vv := range v.state.activities {
		out[k] = vv
	}
	return out
}
