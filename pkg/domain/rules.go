package domain

// Rule is a read-only declarative rule: when every condition holds against a
// snapshot, the consequences are applied to that snapshot in declaration
// order. Rules never hold runtime state.
type Rule struct {
	ID           string        `json:"id"`
	Description  string        `json:"description,omitempty"`
	Conditions   []Condition   `json:"conditions"`
	Consequences []Consequence `json:"consequences"`
}

// Condition is one node of a predicate tree evaluated against a snapshot.
// The parser collaborator encodes grouping and operator precedence in the tree
// shape; the evaluator walks the tree with short-circuit semantics.
type Condition interface {
	condition()
}

// IsWithin holds when the element's interval lies entirely inside the locus,
// bounds inclusive.
type IsWithin struct {
	Element string `json:"element"`
	Locus   string `json:"locus"`
}

// CompareOp is a comparison operator applied to a distance threshold.
type CompareOp string

// Supported distance comparison operators.
const (
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
	OpEqual        CompareOp = "=="
)

func (op CompareOp) valid() bool {
	switch op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual:
		return true
	}
	return false
}

// Compare applies the operator to a defined distance.
func (op CompareOp) Compare(value, threshold int64) bool {
	switch op {
	case OpLess:
		return value < threshold
	case OpLessEqual:
		return value <= threshold
	case OpGreater:
		return value > threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

// DistanceBetween compares the gap distance between two elements against a
// threshold. Cross-chromosome pairs have no defined distance and the
// comparison evaluates to false, never to an error.
type DistanceBetween struct {
	A         string    `json:"a"`
	B         string    `json:"b"`
	Op        CompareOp `json:"op"`
	Threshold int64     `json:"threshold"`
}

// IsInContact holds when the contact provider reports a strength above the
// engine's configured contact threshold for the named contact map.
type IsInContact struct {
	A          string `json:"a"`
	B          string `json:"b"`
	ContactMap string `json:"contact_map"`
}

// ActivityIs holds when the element's current activity matches the expected
// level, alias-aware.
type ActivityIs struct {
	Element string        `json:"element"`
	Level   ActivityLevel `json:"level"`
}

// FactHeld holds when a previously asserted derived fact is present in the
// snapshot.
type FactHeld struct {
	Fact string `json:"fact"`
}

// And holds when every sub-condition holds; evaluation short-circuits on the
// first false.
type And struct {
	Conditions []Condition `json:"and"`
}

// Or holds when any sub-condition holds; evaluation short-circuits on the
// first true.
type Or struct {
	Conditions []Condition `json:"or"`
}

// Not inverts its sub-condition.
type Not struct {
	Condition Condition `json:"not"`
}

func (IsWithin) condition()        {}
func (DistanceBetween) condition() {}
func (IsInContact) condition()     {}
func (ActivityIs) condition()      {}
func (FactHeld) condition()        {}
func (And) condition()             {}
func (Or) condition()              {}
func (Not) condition()             {}

// Consequence is one action applied to a snapshot when a rule fires.
// Consequences are pure state writes and never trigger I/O.
type Consequence interface {
	consequence()
}

// SetActivity overwrites the element's activity level in the snapshot.
type SetActivity struct {
	Element string        `json:"element"`
	Level   ActivityLevel `json:"level"`
}

// Assert records an opaque derived fact in the snapshot for later lookup.
type Assert struct {
	Fact string `json:"fact"`
}

func (SetActivity) consequence() {}
func (Assert) consequence()      {}
