package core

import (
	"context"
	"errors"
	"time"

	"locuscore/internal/infra/contact"
	"locuscore/pkg/domain"
)

var (
	promoterSpan = domain.Interval{Chromosome: "chr3", Start: 181708858, End: 181709358}
	enhancerSpan = domain.Interval{Chromosome: "chr3", Start: 181820000, End: 181821000}
)

// sox2Model is the canonical two-rule regulatory model used across the engine
// tests: gene-body expression requires the promoter inside its locus and in
// contact with the distal enhancer; losing either condition idles the gene.
func sox2Model() domain.Model {
	isExpressed := domain.And{Conditions: []domain.Condition{
		domain.IsWithin{Element: "Sox2_Promoter", Locus: "Sox2_GeneLocus"},
		domain.IsInContact{A: "Sox2_Promoter", B: "Sox2_Enhancer", ContactMap: "hic_map_1"},
	}}
	return domain.Model{
		Loci: []domain.Locus{{
			ID:         "Sox2_GeneLocus",
			Chromosome: "chr3",
			Start:      181708858,
			End:        181711758,
			ElementIDs: []string{"Sox2_Promoter", "Sox2_GeneBody"},
		}},
		Elements: []domain.Element{
			{ID: "Sox2_Promoter", Type: "promoter", LocusID: "Sox2_GeneLocus", Coords: &domain.Interval{Chromosome: "chr3", Start: 181708858, End: 181709358}},
			{ID: "Sox2_GeneBody", Type: "gene", LocusID: "Sox2_GeneLocus"},
			{ID: "Sox2_Enhancer", Type: "enhancer", Coords: &domain.Interval{Chromosome: "chr3", Start: 181820000, End: 181821000}},
		},
		Rules: []domain.Rule{
			{
				ID:           "sox2_repression",
				Description:  "without promoter-enhancer contact the gene idles",
				Conditions:   []domain.Condition{domain.Not{Condition: isExpressed}},
				Consequences: []domain.Consequence{domain.SetActivity{Element: "Sox2_GeneBody", Level: "low_or_off"}},
			},
			{
				ID:           "sox2_expression",
				Description:  "promoter in place and in contact drives the gene",
				Conditions:   []domain.Condition{isExpressed},
				Consequences: []domain.Consequence{domain.SetActivity{Element: "Sox2_GeneBody", Level: domain.ActivityHigh}},
			},
		},
	}
}

func sox2Contacts() *contact.MemoryProvider {
	provider := contact.NewMemory()
	provider.RegisterPair("hic_map_1", promoterSpan, enhancerSpan, 0.9)
	return provider
}

// failingProvider returns the configured error for every lookup.
type failingProvider struct {
	err   error
	calls int
}

func (p *failingProvider) Strength(context.Context, domain.Interval, domain.Interval, string) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return 0, errors.New("unreachable contact source")
}

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}
