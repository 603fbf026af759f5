package core

import (
	"context"
	"errors"
	"testing"

	"locuscore/internal/infra/persistence/memory"
	"locuscore/pkg/domain"
)

func coordModel() domain.Model {
	return domain.Model{
		Elements: []domain.Element{
			{ID: "left", Type: "anchor", Coords: &domain.Interval{Chromosome: "chr1", Start: 100, End: 200}},
			{ID: "right", Type: "anchor", Coords: &domain.Interval{Chromosome: "chr1", Start: 500, End: 600}},
			{ID: "other", Type: "anchor", Coords: &domain.Interval{Chromosome: "chr2", Start: 100, End: 200}},
		},
	}
}

func newEvaluator(t *testing.T, model domain.Model, contacts domain.ContactProvider) evaluator {
	t.Helper()
	store := memory.NewStore()
	if err := store.SetModel(model); err != nil {
		t.Fatalf("set model: %v", err)
	}
	return evaluator{model: model, view: store.Snapshot(), contacts: contacts, cfg: DefaultConfig()}
}

func TestEvaluatorDistanceComparisons(t *testing.T) {
	ev := newEvaluator(t, coordModel(), nil)
	ctx := context.Background()

	// Gap between left and right is 300.
	cases := []struct {
		op        domain.CompareOp
		threshold int64
		want      bool
	}{
		{domain.OpLess, 301, true},
		{domain.OpLess, 300, false},
		{domain.OpLessEqual, 300, true},
		{domain.OpGreater, 299, true},
		{domain.OpGreaterEqual, 300, true},
		{domain.OpEqual, 300, true},
		{domain.OpEqual, 299, false},
	}
	for _, tc := range cases {
		got, err := ev.eval(ctx, domain.DistanceBetween{A: "left", B: "right", Op: tc.op, Threshold: tc.threshold})
		if err != nil {
			t.Fatalf("eval %s %d: %v", tc.op, tc.threshold, err)
		}
		if got != tc.want {
			t.Fatalf("distance %s %d: got %v, want %v", tc.op, tc.threshold, got, tc.want)
		}
	}
}

func TestEvaluatorCrossChromosomeDistanceIsFalse(t *testing.T) {
	ev := newEvaluator(t, coordModel(), nil)
	for _, op := range []domain.CompareOp{domain.OpLess, domain.OpGreater, domain.OpEqual} {
		got, err := ev.eval(context.Background(), domain.DistanceBetween{A: "left", B: "other", Op: op, Threshold: 1 << 40})
		if err != nil {
			t.Fatalf("eval %s: %v", op, err)
		}
		if got {
			t.Fatalf("cross-chromosome distance must not satisfy %s", op)
		}
	}
}

func TestEvaluatorContactThresholdIsExclusive(t *testing.T) {
	model := sox2Model()
	provider := sox2Contacts()
	ev := newEvaluator(t, model, provider)
	cond := domain.IsInContact{A: "Sox2_Promoter", B: "Sox2_Enhancer", ContactMap: "hic_map_1"}

	got, err := ev.eval(context.Background(), cond)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !got {
		t.Fatalf("strength 0.9 above threshold 0.5 must hold")
	}

	// A strength exactly at the threshold does not count as contact.
	boundary := newEvaluator(t, model, contactOnly(DefaultContactThreshold))
	got, err = boundary.eval(context.Background(), cond)
	if err != nil {
		t.Fatalf("eval boundary: %v", err)
	}
	if got {
		t.Fatalf("strength equal to the threshold must not hold")
	}
}

// contactOnly is a provider returning one fixed strength for every lookup.
type contactOnly float64

func (c contactOnly) Strength(context.Context, domain.Interval, domain.Interval, string) (float64, error) {
	return float64(c), nil
}

func TestEvaluatorMissingReferencesAreLoud(t *testing.T) {
	ev := newEvaluator(t, coordModel(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cond domain.Condition
		kind domain.EntityType
	}{
		{"unknown element", domain.ActivityIs{Element: "ghost", Level: domain.ActivityHigh}, domain.EntityElement},
		{"unknown locus", domain.IsWithin{Element: "left", Locus: "ghost_locus"}, domain.EntityLocus},
		{"unknown distance operand", domain.DistanceBetween{A: "ghost", B: "right", Op: domain.OpLess, Threshold: 1}, domain.EntityElement},
		{"contact without provider", domain.IsInContact{A: "left", B: "right", ContactMap: "hic_map_1"}, domain.EntityContactMap},
	}
	for _, tc := range cases {
		_, err := ev.eval(ctx, tc.cond)
		var refErr domain.ReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("%s: expected ReferenceError, got %v", tc.name, err)
		}
		if refErr.Kind != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.name, tc.kind, refErr.Kind)
		}
	}
}

func TestEvaluatorProviderFailureWrapsReferenceError(t *testing.T) {
	cause := errors.New("bucket unreachable")
	ev := newEvaluator(t, coordModel(), &failingProvider{err: cause})
	_, err := ev.eval(context.Background(), domain.IsInContact{A: "left", B: "right", ContactMap: "hic_map_1"})
	var refErr domain.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestEvaluatorShortCircuits(t *testing.T) {
	provider := &failingProvider{}
	ev := newEvaluator(t, coordModel(), provider)
	ctx := context.Background()
	contact := domain.IsInContact{A: "left", B: "right", ContactMap: "m"}

	// The true branch of OR wins before the failing contact lookup runs.
	got, err := ev.eval(ctx, domain.Or{Conditions: []domain.Condition{
		domain.DistanceBetween{A: "left", B: "right", Op: domain.OpEqual, Threshold: 300},
		contact,
	}})
	if err != nil || !got {
		t.Fatalf("or: got %v, %v", got, err)
	}

	// The false branch of AND wins the same way.
	got, err = ev.eval(ctx, domain.And{Conditions: []domain.Condition{
		domain.DistanceBetween{A: "left", B: "right", Op: domain.OpLess, Threshold: 1},
		contact,
	}})
	if err != nil || got {
		t.Fatalf("and: got %v, %v", got, err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no contact lookups, got %d", provider.calls)
	}
}

func TestEvaluatorNotAndMalformedConditions(t *testing.T) {
	ev := newEvaluator(t, coordModel(), nil)
	ctx := context.Background()

	got, err := ev.eval(ctx, domain.Not{Condition: domain.DistanceBetween{A: "left", B: "right", Op: domain.OpLess, Threshold: 1}})
	if err != nil || !got {
		t.Fatalf("not: got %v, %v", got, err)
	}

	var condErr domain.ConditionError
	if _, err := ev.eval(ctx, nil); !errors.As(err, &condErr) {
		t.Fatalf("nil condition: expected ConditionError, got %v", err)
	}
	if _, err := ev.eval(ctx, domain.Not{}); !errors.As(err, &condErr) {
		t.Fatalf("empty not: expected ConditionError, got %v", err)
	}
}

func TestEvaluatorActivityAliasMatching(t *testing.T) {
	store := memory.NewStore()
	model := coordModel()
	if err := store.SetModel(model); err != nil {
		t.Fatalf("set model: %v", err)
	}
	snap := store.Snapshot()
	snap.SetActivity("left", "low_or_off")
	ev := evaluator{model: model, view: snap, cfg: DefaultConfig()}

	got, err := ev.eval(context.Background(), domain.ActivityIs{Element: "left", Level: domain.ActivityLow})
	if err != nil || !got {
		t.Fatalf("alias match: got %v, %v", got, err)
	}
}
