package core

import (
	"context"
	"sync"
	"time"

	"locuscore/internal/infra/persistence/memory"
	"locuscore/pkg/domain"
)

// Service exposes model loading, baseline rule runs, and counterfactual
// simulations over a domain.Store. Baseline commits are serialized; any number
// of simulations may run concurrently against their own snapshots.
type Service struct {
	store    domain.Store
	contacts domain.ContactProvider
	cfg      Config
	logger   Logger
	metrics  MetricsRecorder
	clock    Clock

	commitMu sync.Mutex
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger overrides the default noop logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for operation timing.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMetricsRecorder overrides the default noop metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithConfig replaces the engine tuning parameters.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithContactProvider supplies the 3D-contact data source consulted by
// is_in_contact conditions. Without one, any rule touching contact data fails
// with a reference error.
func WithContactProvider(p domain.ContactProvider) Option {
	return func(s *Service) { s.contacts = p }
}

// NewService wraps an existing store.
func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		cfg:     DefaultConfig(),
		logger:  NoopLogger(),
		metrics: noopMetrics{},
		clock:   ClockFunc(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService builds a service over a fresh in-memory store.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Capability returns the feature tag checked by capability-aware validators
// before routing spatial rules to this engine.
func (s *Service) Capability() string {
	return domain.CapabilitySpatialReasoning
}

// LoadModel validates and installs a structural model, resetting baseline
// state to the model's declared coordinates.
func (s *Service) LoadModel(ctx context.Context, model domain.Model) error {
	start := s.clock.Now()
	err := s.store.SetModel(model)
	s.observe(ctx, "load_model", start, err)
	if err != nil {
		s.logger.Error("load model", "error", err)
		return err
	}
	s.logger.Info("model loaded",
		"loci", len(model.Loci), "elements", len(model.Elements), "rules", len(model.Rules))
	return nil
}

// RunBaseline runs the rules against the persistent baseline and commits the
// consequences after a full successful fixed point. A failed run commits
// nothing.
func (s *Service) RunBaseline(ctx context.Context) (domain.Result, error) {
	start := s.clock.Now()
	result, err := s.runBaseline(ctx)
	s.observe(ctx, "run_baseline", start, err)
	if err != nil {
		s.logger.Error("baseline run failed", "error", err)
		return domain.Result{}, err
	}
	s.logger.Info("baseline converged",
		"passes", result.Passes, "changes", len(result.Changes), "conflicts", len(result.Conflicts))
	return result, nil
}

func (s *Service) runBaseline(ctx context.Context) (domain.Result, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	snap := s.store.Snapshot()
	result, err := runRules(ctx, s.store.Model(), snap, s.contacts, s.cfg, s.logger)
	if err != nil {
		return domain.Result{}, err
	}
	if err := s.store.Commit(ctx, snap); err != nil {
		return domain.Result{}, err
	}
	return result, nil
}

// RunSimulation answers one counterfactual request against a discarded
// snapshot. The persistent baseline is never touched.
func (s *Service) RunSimulation(ctx context.Context, sim domain.Simulation) (domain.SimulationResult, error) {
	start := s.clock.Now()
	result, err := s.runSimulation(ctx, sim)
	s.observe(ctx, "run_simulation", start, err)
	if err != nil {
		s.logger.Error("simulation failed", "simulation", sim.Name, "error", err)
		return domain.SimulationResult{}, err
	}
	return result, nil
}

// BaselineActivity reads one element's committed activity level.
func (s *Service) BaselineActivity(id string) (domain.ActivityLevel, error) {
	if _, ok := s.store.Model().FindElement(id); !ok {
		return domain.ActivityUnknown, domain.ReferenceError{Kind: domain.EntityElement, ID: id}
	}
	return s.store.Baseline().Activity(id), nil
}

// BaselineActivities returns a copy of every committed element activity.
func (s *Service) BaselineActivities() map[string]domain.ActivityLevel {
	return s.store.Baseline().Activities()
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(start))
}
