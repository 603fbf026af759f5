package domain

// Action is the single hypothetical mutation a simulation may apply to its
// snapshot. A nil Action leaves the snapshot identical to the baseline,
// yielding a pure "what is true right now" query.
type Action interface {
	action()
}

// MoveAction relocates an element to a destination location token
// (chromosome:position or chromosome:start-end). Without an explicit end the
// element becomes a zero-length point reference at that position.
type MoveAction struct {
	Element     string `json:"element"`
	Destination string `json:"destination"`
}

// SetActivityAction overwrites the element's activity in the snapshot.
type SetActivityAction struct {
	Element string        `json:"element"`
	Level   ActivityLevel `json:"level"`
}

func (MoveAction) action()        {}
func (SetActivityAction) action() {}

// Query reads an element's activity from the converged snapshot. When Expect
// is set the result additionally reports whether the resolved level matches.
type Query struct {
	Element string         `json:"element"`
	Expect  *ActivityLevel `json:"expect,omitempty"`
}

// QueryResult is one answered simulation query. Matched is nil for queries
// without an expectation.
type QueryResult struct {
	Element string        `json:"element"`
	Level   ActivityLevel `json:"level"`
	Matched *bool         `json:"matched,omitempty"`
}

// Simulation is a transient counterfactual request: snapshot the baseline,
// apply at most one action, run rules to a fixed point, answer the queries in
// order, and discard the snapshot. The persistent baseline is never touched.
type Simulation struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Action      Action  `json:"action,omitempty"`
	Queries     []Query `json:"queries"`
}

// SimulationResult carries the ordered query answers and the rule-run summary
// for one simulation. Nothing else escapes the discarded snapshot.
type SimulationResult struct {
	Name    string        `json:"name"`
	Results []QueryResult `json:"results"`
	RuleRun Result        `json:"rule_run"`
}
