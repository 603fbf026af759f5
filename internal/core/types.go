// Package core wires the rule engine, predicate evaluator, and simulation
// orchestrator behind a service facade over a domain.Store.
package core

import "locuscore/pkg/domain"

// Re-exported domain types so embedding callers can stay on the core package
// for common workflows.
type (
	Model            = domain.Model
	Locus            = domain.Locus
	Element          = domain.Element
	Rule             = domain.Rule
	Interval         = domain.Interval
	ActivityLevel    = domain.ActivityLevel
	Simulation       = domain.Simulation
	SimulationResult = domain.SimulationResult
	Result           = domain.Result
	ContactProvider  = domain.ContactProvider
)
