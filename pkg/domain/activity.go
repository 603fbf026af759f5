package domain

// ActivityLevel is an inferred expression or regulatory-state label for an
// element. The four canonical levels carry a total order; free-form labels are
// aliased to the nearest canonical level for threshold comparisons while the
// original token is preserved for reporting.
type ActivityLevel string

// Canonical activity levels in ascending order, plus the unknown sentinel used
// for elements with no recorded activity. Unknown is distinct from off: an
// element that was never assigned is not known to be silent.
const (
	ActivityUnknown ActivityLevel = "unknown"
	ActivityOff     ActivityLevel = "off"
	ActivityLow     ActivityLevel = "low"
	ActivityMedium  ActivityLevel = "medium"
	ActivityHigh    ActivityLevel = "high"
)

var activityRanks = map[ActivityLevel]int{
	ActivityOff:    0,
	ActivityLow:    1,
	ActivityMedium: 2,
	ActivityHigh:   3,
}

// activityAliases maps known free-form labels onto the nearest canonical level.
var activityAliases = map[ActivityLevel]ActivityLevel{
	"low_or_off": ActivityLow,
	"silent":     ActivityOff,
	"active":     ActivityHigh,
}

// Canonical resolves an alias to its canonical level. Canonical levels and
// unrecognized tokens are returned unchanged.
func (l ActivityLevel) Canonical() ActivityLevel {
	if alias, ok := activityAliases[l]; ok {
		return alias
	}
	return l
}

// Rank returns the level's position in the canonical order. ok is false for
// the unknown sentinel and for tokens outside the canonical vocabulary and its
// aliases; such levels participate in no order comparison.
func (l ActivityLevel) Rank() (int, bool) {
	rank, ok := activityRanks[l.Canonical()]
	return rank, ok
}

// Known reports whether the level carries a defined rank.
func (l ActivityLevel) Known() bool {
	_, ok := l.Rank()
	return ok
}

// Less reports whether l is strictly below other in the canonical order.
// Levels without a rank are never below or above anything.
func (l ActivityLevel) Less(other ActivityLevel) bool {
	a, okA := l.Rank()
	b, okB := other.Rank()
	return okA && okB && a < b
}

// Matches reports whether two levels denote the same canonical value. Free-form
// tokens that alias to the same canonical level match each other.
func (l ActivityLevel) Matches(other ActivityLevel) bool {
	return l.Canonical() == other.Canonical()
}
