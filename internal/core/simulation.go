package core

import (
	"context"
	"fmt"

	"locuscore/pkg/domain"
)

// simulationStage names one step of a counterfactual run.
type simulationStage string

const (
	stageIdle             simulationStage = "idle"
	stageSnapshotTaken    simulationStage = "snapshot_taken"
	stageActionApplied    simulationStage = "action_applied"
	stageRulesConverged   simulationStage = "rules_converged"
	stageQueriesEvaluated simulationStage = "queries_evaluated"
	stageDiscarded        simulationStage = "discarded"
)

// simulationRun drives one counterfactual request through its stages against
// a private snapshot. The snapshot never commits: whether the run completes or
// aborts mid-stage, everything it wrote is discarded with it.
type simulationRun struct {
	svc   *Service
	name  string
	model domain.Model
	snap  domain.Snapshot
	stage simulationStage
}

func (s *Service) runSimulation(ctx context.Context, sim domain.Simulation) (domain.SimulationResult, error) {
	run := &simulationRun{svc: s, name: sim.Name, model: s.store.Model(), stage: stageIdle}
	defer run.discard()

	run.takeSnapshot()
	if err := run.applyAction(sim.Action); err != nil {
		return domain.SimulationResult{}, err
	}
	ruleRun, err := run.converge(ctx)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	answers, err := run.answerQueries(sim.Queries)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	return domain.SimulationResult{Name: sim.Name, Results: answers, RuleRun: ruleRun}, nil
}

func (r *simulationRun) advance(stage simulationStage) {
	r.stage = stage
	r.svc.logger.Debug("simulation stage", "simulation", r.name, "stage", string(stage))
}

func (r *simulationRun) takeSnapshot() {
	r.snap = r.svc.store.Snapshot()
	r.advance(stageSnapshotTaken)
}

// applyAction applies the simulation's single hypothetical mutation. A nil
// action leaves the snapshot at the baseline, turning the run into a pure
// query of current state.
func (r *simulationRun) applyAction(action domain.Action) error {
	switch v := action.(type) {
	case nil:
	case domain.MoveAction:
		if _, ok := r.model.FindElement(v.Element); !ok {
			return domain.ReferenceError{Kind: domain.EntityElement, ID: v.Element}
		}
		dest, err := domain.ParseLocation(v.Destination)
		if err != nil {
			return domain.ConditionError{Reason: fmt.Sprintf("move destination %q: %v", v.Destination, err)}
		}
		r.snap.SetElementInterval(v.Element, dest)
	case domain.SetActivityAction:
		if _, ok := r.model.FindElement(v.Element); !ok {
			return domain.ReferenceError{Kind: domain.EntityElement, ID: v.Element}
		}
		r.snap.SetActivity(v.Element, v.Level)
	default:
		return domain.ConditionError{Reason: fmt.Sprintf("unknown action type %T", action)}
	}
	r.advance(stageActionApplied)
	return nil
}

func (r *simulationRun) converge(ctx context.Context) (domain.Result, error) {
	result, err := runRules(ctx, r.model, r.snap, r.svc.contacts, r.svc.cfg, r.svc.logger)
	if err != nil {
		return domain.Result{}, err
	}
	r.advance(stageRulesConverged)
	return result, nil
}

func (r *simulationRun) answerQueries(queries []domain.Query) ([]domain.QueryResult, error) {
	results := make([]domain.QueryResult, 0, len(queries))
	for _, q := range queries {
		if _, ok := r.model.FindElement(q.Element); !ok {
			return nil, domain.ReferenceError{Kind: domain.EntityElement, ID: q.Element}
		}
		level := r.snap.Activity(q.Element)
		qr := domain.QueryResult{Element: q.Element, Level: level}
		if q.Expect != nil {
			matched := level.Matches(*q.Expect)
			qr.Matched = &matched
		}
		results = append(results, qr)
	}
	r.advance(stageQueriesEvaluated)
	return results, nil
}

func (r *simulationRun) discard() {
	r.snap = nil
	r.advance(stageDiscarded)
}
