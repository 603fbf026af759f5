package domain

// ChangeKind distinguishes the two kinds of fact a rule run may change.
type ChangeKind string

// Fact change kinds recorded during rule evaluation.
const (
	// ChangeActivity records an element activity write.
	ChangeActivity ChangeKind = "activity"
	// ChangeFact records a derived-fact assertion.
	ChangeFact ChangeKind = "fact"
)

// FactChange records one fact changed while applying a rule's consequences.
type FactChange struct {
	Kind    ChangeKind    `json:"kind"`
	Rule    string        `json:"rule"`
	Pass    int           `json:"pass"`
	Element string        `json:"element,omitempty"`
	Fact    string        `json:"fact,omitempty"`
	From    ActivityLevel `json:"from,omitempty"`
	To      ActivityLevel `json:"to,omitempty"`
}

// Target names the changed fact for diagnostics and convergence reporting.
func (c FactChange) Target() string {
	if c.Kind == ChangeFact {
		return "fact:" + c.Fact
	}
	return "activity:" + c.Element
}

// Conflict records two rules assigning different activity levels to the same
// element within one pass. Conflicts are not errors: the later rule in
// declaration order wins, and the overwrite is surfaced for diagnostics.
type Conflict struct {
	Element string        `json:"element"`
	Pass    int           `json:"pass"`
	Loser   string        `json:"loser_rule"`
	Winner  string        `json:"winner_rule"`
	Dropped ActivityLevel `json:"dropped"`
	Applied ActivityLevel `json:"applied"`
}

// Result summarizes one rule run to a fixed point.
type Result struct {
	Passes    int          `json:"passes"`
	Changes   []FactChange `json:"changes,omitempty"`
	Conflicts []Conflict   `json:"conflicts,omitempty"`
}

// Merge folds another result into r, accumulating changes and conflicts and
// keeping the larger pass count.
func (r *Result) Merge(other Result) {
	if other.Passes > r.Passes {
		r.Passes = other.Passes
	}
	r.Changes = append(r.Changes, other.Changes...)
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
}
