// Package domain defines the genomic model entities, coordinate arithmetic,
// rule primitives, and state interfaces used by locuscore.
package domain

import "fmt"

// EntityType identifies the kind of record referenced by rules and simulations.
type EntityType string

// Supported entity type identifiers used in errors and diagnostics.
const (
	// EntityLocus identifies a named genomic interval.
	EntityLocus EntityType = "locus"
	// EntityElement identifies a genomic feature within or independent of a locus.
	EntityElement EntityType = "element"
	// EntityRule identifies a declarative rule record.
	EntityRule EntityType = "rule"
	// EntityContactMap identifies an external 3D-contact data source.
	EntityContactMap EntityType = "contact_map"
)

// CapabilitySpatialReasoning is the feature identifier checked by the upstream
// capability-aware validator before the engine is invoked. The engine itself
// assumes the capability has already been accepted and does not re-check it.
const CapabilitySpatialReasoning = "spatial_reasoning"

// Locus is a named genomic interval. Loci are created from the validated input
// model and are immutable for the lifetime of a reasoning session.
type Locus struct {
	ID         string   `json:"id"`
	Chromosome string   `json:"chromosome"`
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	ElementIDs []string `json:"element_ids,omitempty"`
}

// Span returns the locus interval.
func (l Locus) Span() Interval {
	return Interval{Chromosome: l.Chromosome, Start: l.Start, End: l.End}
}

// Element is a genomic feature (promoter, enhancer, gene, ...). When Coords is
// nil the element inherits its owning locus's chromosome and full span.
type Element struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	LocusID string    `json:"locus_id,omitempty"`
	Coords  *Interval `json:"coords,omitempty"`
}

// Model is the fully resolved structural model handed to the engine by the
// parser/validator collaborators. The engine re-checks references defensively
// even though the upstream validator is expected to guarantee them.
type Model struct {
	Loci     []Locus   `json:"loci"`
	Elements []Element `json:"elements"`
	Rules    []Rule    `json:"rules"`
}

// FindLocus retrieves a locus by ID.
func (m Model) FindLocus(id string) (Locus, bool) {
	for _, l := range m.Loci {
		if l.ID == id {
			return l, true
		}
	}
	return Locus{}, false
}

// FindElement retrieves an element by ID.
func (m Model) FindElement(id string) (Element, bool) {
	for _, e := range m.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// ElementSpan resolves an element's declared interval: explicit coordinates
// when present, otherwise the owning locus's full span.
func (m Model) ElementSpan(id string) (Interval, error) {
	el, ok := m.FindElement(id)
	if !ok {
		return Interval{}, ReferenceError{Kind: EntityElement, ID: id}
	}
	if el.Coords != nil {
		return *el.Coords, nil
	}
	locus, ok := m.FindLocus(el.LocusID)
	if !ok {
		return Interval{}, ReferenceError{Kind: EntityLocus, ID: el.LocusID}
	}
	return locus.Span(), nil
}

// Validate re-checks the structural invariants the upstream validator is
// expected to guarantee: unique IDs, resolvable references, and ordered
// interval bounds. The first violation found is returned.
func (m Model) Validate() error {
	lociByID := make(map[string]Locus, len(m.Loci))
	for _, l := range m.Loci {
		if l.ID == "" {
			return ConditionError{Reason: "locus with empty id"}
		}
		if _, dup := lociByID[l.ID]; dup {
			return ConditionError{Reason: fmt.Sprintf("duplicate locus id %q", l.ID)}
		}
		if l.Start > l.End {
			return ConditionError{Reason: fmt.Sprintf("locus %q has start > end", l.ID)}
		}
		lociByID[l.ID] = l
	}
	elementsByID := make(map[string]Element, len(m.Elements))
	for _, e := range m.Elements {
		if e.ID == "" {
			return ConditionError{Reason: "element with empty id"}
		}
		if _, dup := elementsByID[e.ID]; dup {
			return ConditionError{Reason: fmt.Sprintf("duplicate element id %q", e.ID)}
		}
		if e.LocusID != "" {
			if _, ok := lociByID[e.LocusID]; !ok {
				return ReferenceError{Kind: EntityLocus, ID: e.LocusID}
			}
		}
		if e.Coords != nil && e.Coords.Start > e.Coords.End {
			return ConditionError{Reason: fmt.Sprintf("element %q has start > end", e.ID)}
		}
		if e.Coords == nil && e.LocusID == "" {
			return ConditionError{Reason: fmt.Sprintf("element %q has neither coordinates nor an owning locus", e.ID)}
		}
		elementsByID[e.ID] = e
	}
	for _, l := range m.Loci {
		for _, id := range l.ElementIDs {
			if _, ok := elementsByID[id]; !ok {
				return ReferenceError{Kind: EntityElement, ID: id}
			}
		}
	}
	ruleIDs := make(map[string]struct{}, len(m.Rules))
	for _, r := range m.Rules {
		if r.ID == "" {
			return ConditionError{Reason: "rule with empty id"}
		}
		if _, dup := ruleIDs[r.ID]; dup {
			return ConditionError{Reason: fmt.Sprintf("duplicate rule id %q", r.ID)}
		}
		ruleIDs[r.ID] = struct{}{}
		if err := m.validateRuleRefs(r, elementsByID, lociByID); err != nil {
			return err
		}
	}
	return nil
}

func (m Model) validateRuleRefs(r Rule, elements map[string]Element, loci map[string]Locus) error {
	for _, c := range r.Conditions {
		if err := validateCondition(c, elements, loci); err != nil {
			return err
		}
	}
	for _, cq := range r.Consequences {
		switch v := cq.(type) {
		case SetActivity:
			if _, ok := elements[v.Element]; !ok {
				return ReferenceError{Kind: EntityElement, ID: v.Element}
			}
		case Assert:
			if v.Fact == "" {
				return ConditionError{Reason: fmt.Sprintf("rule %q asserts an empty fact", r.ID)}
			}
		case nil:
			return ConditionError{Reason: fmt.Sprintf("rule %q has a nil consequence", r.ID)}
		default:
			return ConditionError{Reason: fmt.Sprintf("rule %q has unknown consequence type %T", r.ID, cq)}
		}
	}
	return nil
}

func validateCondition(c Condition, elements map[string]Element, loci map[string]Locus) error {
	switch v := c.(type) {
	case IsWithin:
		if _, ok := elements[v.Element]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.Element}
		}
		if _, ok := loci[v.Locus]; !ok {
			return ReferenceError{Kind: EntityLocus, ID: v.Locus}
		}
	case DistanceBetween:
		if _, ok := elements[v.A]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.A}
		}
		if _, ok := elements[v.B]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.B}
		}
		if !v.Op.valid() {
			return ConditionError{Reason: fmt.Sprintf("invalid comparison operator %q", v.Op)}
		}
	case IsInContact:
		if _, ok := elements[v.A]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.A}
		}
		if _, ok := elements[v.B]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.B}
		}
		if v.ContactMap == "" {
			return ConditionError{Reason: "is_in_contact with empty contact map id"}
		}
	case ActivityIs:
		if _, ok := elements[v.Element]; !ok {
			return ReferenceError{Kind: EntityElement, ID: v.Element}
		}
	case FactHeld:
		if v.Fact == "" {
			return ConditionError{Reason: "fact lookup with empty fact"}
		}
	case And:
		for _, sub := range v.Conditions {
			if err := validateCondition(sub, elements, loci); err != nil {
				return err
			}
		}
	case Or:
		for _, sub := range v.Conditions {
			if err := validateCondition(sub, elements, loci); err != nil {
				return err
			}
		}
	case Not:
		return validateCondition(v.Condition, elements, loci)
	case nil:
		return ConditionError{Reason: "nil condition"}
	default:
		return ConditionError{Reason: fmt.Sprintf("unknown condition type %T", c)}
	}
	return nil
}
