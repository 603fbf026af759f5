package core

import (
	"context"
	"fmt"

	"locuscore/pkg/domain"
)

// activityWrite remembers which rule last set an element's activity within the
// current pass, for conflict detection.
type activityWrite struct {
	rule  string
	level domain.ActivityLevel
}

// passState accumulates one pass's bookkeeping: per-write change records for
// diagnostics, conflicts, and the net state delta that decides convergence.
// Convergence is judged on the net delta: a pass whose writes cancel out (the
// standing outcome of two conflicting rules under last-writer-wins) is a fixed
// point, not an oscillation.
type passState struct {
	pass        int
	changes     []domain.FactChange
	conflicts   []domain.Conflict
	writers     map[string]activityWrite
	startLevels map[string]domain.ActivityLevel
	touched     []string
	newFacts    []string
}

// runRules drives the model's rules to a fixed point against snap. Rules are
// evaluated in declaration order and consequences applied in order to the same
// snapshot; passes repeat while the pass left any fact net-changed. The pass
// count is capped at MaxPassFactor times the rule count; exceeding the cap
// returns a ConvergenceError naming the facts still changing. Any evaluation
// error aborts the run immediately.
func runRules(ctx context.Context, model domain.Model, snap domain.Snapshot, contacts domain.ContactProvider, cfg Config, logger Logger) (domain.Result, error) {
	var result domain.Result
	if len(model.Rules) == 0 {
		return result, nil
	}
	maxPasses := cfg.MaxPassFactor * len(model.Rules)
	if maxPasses < 1 {
		maxPasses = 1
	}
	ev := evaluator{model: model, view: snap, contacts: contacts, cfg: cfg}

	var lastPending []string
	for pass := 1; ; pass++ {
		if pass > maxPasses {
			logger.Warn("rule run exceeded pass bound", "passes", maxPasses, "pending", lastPending)
			return result, domain.ConvergenceError{Passes: maxPasses, Pending: lastPending}
		}
		ps, err := runPass(ctx, ev, model, snap, pass, logger)
		if err != nil {
			return domain.Result{}, err
		}
		result.Passes = pass
		result.Changes = append(result.Changes, ps.changes...)
		result.Conflicts = append(result.Conflicts, ps.conflicts...)
		pending := ps.pending(snap)
		if len(pending) == 0 {
			return result, nil
		}
		lastPending = pending
	}
}

func runPass(ctx context.Context, ev evaluator, model domain.Model, snap domain.Snapshot, pass int, logger Logger) (*passState, error) {
	ps := &passState{
		pass:        pass,
		writers:     make(map[string]activityWrite),
		startLevels: make(map[string]domain.ActivityLevel),
	}
	for _, rule := range model.Rules {
		hold := true
		for _, cond := range rule.Conditions {
			ok, err := ev.eval(ctx, cond)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", rule.ID, err)
			}
			if !ok {
				hold = false
				break
			}
		}
		if !hold {
			continue
		}
		for _, cq := range rule.Consequences {
			switch v := cq.(type) {
			case domain.SetActivity:
				ps.setActivity(snap, rule.ID, v, logger)
			case domain.Assert:
				if !snap.FactHeld(v.Fact) {
					snap.AssertFact(v.Fact)
					ps.newFacts = append(ps.newFacts, v.Fact)
					ps.changes = append(ps.changes, domain.FactChange{
						Kind: domain.ChangeFact,
						Rule: rule.ID,
						Pass: pass,
						Fact: v.Fact,
					})
				}
			default:
				return nil, domain.ConditionError{Reason: fmt.Sprintf("rule %q has unknown consequence type %T", rule.ID, cq)}
			}
		}
	}
	return ps, nil
}

func (ps *passState) setActivity(snap domain.Snapshot, ruleID string, v domain.SetActivity, logger Logger) {
	prev := snap.Activity(v.Element)
	if _, seen := ps.startLevels[v.Element]; !seen {
		ps.startLevels[v.Element] = prev
		ps.touched = append(ps.touched, v.Element)
	}
	if w, ok := ps.writers[v.Element]; ok && !w.level.Matches(v.Level) {
		// Later rule in declaration order wins; the overwrite is surfaced as a
		// diagnostic, not an error.
		ps.conflicts = append(ps.conflicts, domain.Conflict{
			Element: v.Element,
			Pass:    ps.pass,
			Loser:   w.rule,
			Winner:  ruleID,
			Dropped: w.level,
			Applied: v.Level,
		})
		logger.Warn("conflicting activity writes",
			"element", v.Element, "pass", ps.pass,
			"loser", w.rule, "winner", ruleID)
	}
	ps.writers[v.Element] = activityWrite{rule: ruleID, level: v.Level}
	snap.SetActivity(v.Element, v.Level)
	if !prev.Matches(v.Level) {
		ps.changes = append(ps.changes, domain.FactChange{
			Kind:    domain.ChangeActivity,
			Rule:    ruleID,
			Pass:    ps.pass,
			Element: v.Element,
			From:    prev,
			To:      v.Level,
		})
	}
}

// pending lists the fact targets left net-changed by the pass, in first-touch
// order. An empty list means the pass reached a fixed point.
func (ps *passState) pending(snap domain.Snapshot) []string {
	var targets []string
	for _, fact := range ps.newFacts {
		targets = append(targets, "fact:"+fact)
	}
	for _, el := range ps.touched {
		if !snap.Activity(el).Matches(ps.startLevels[el]) {
			targets = append(targets, "activity:"+el)
		}
	}
	return targets
}
