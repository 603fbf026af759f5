package core

import (
	"context"
	"errors"
	"fmt"

	"locuscore/pkg/domain"
)

// evaluator resolves condition trees against one state view. It holds no
// state beyond its inputs and is rebuilt for every rule run.
type evaluator struct {
	model    domain.Model
	view     domain.StateView
	contacts domain.ContactProvider
	cfg      Config
}

// eval walks the condition tree with short-circuit semantics. Unknown
// references abort the run instead of silently evaluating to false.
func (ev evaluator) eval(ctx context.Context, c domain.Condition) (bool, error) {
	switch v := c.(type) {
	case domain.IsWithin:
		span, err := ev.elementSpan(v.Element)
		if err != nil {
			return false, err
		}
		locus, ok := ev.model.FindLocus(v.Locus)
		if !ok {
			return false, domain.ReferenceError{Kind: domain.EntityLocus, ID: v.Locus}
		}
		return locus.Span().Contains(span), nil
	case domain.DistanceBetween:
		a, err := ev.elementSpan(v.A)
		if err != nil {
			return false, err
		}
		b, err := ev.elementSpan(v.B)
		if err != nil {
			return false, err
		}
		gap, ok := domain.Distance(a, b)
		if !ok {
			// No defined distance across chromosomes; every comparison is false.
			return false, nil
		}
		return v.Op.Compare(gap, v.Threshold), nil
	case domain.IsInContact:
		a, err := ev.elementSpan(v.A)
		if err != nil {
			return false, err
		}
		b, err := ev.elementSpan(v.B)
		if err != nil {
			return false, err
		}
		strength, err := ev.strength(ctx, a, b, v.ContactMap)
		if err != nil {
			return false, err
		}
		return strength > ev.cfg.ContactThreshold, nil
	case domain.ActivityIs:
		if _, ok := ev.model.FindElement(v.Element); !ok {
			return false, domain.ReferenceError{Kind: domain.EntityElement, ID: v.Element}
		}
		return ev.view.Activity(v.Element).Matches(v.Level), nil
	case domain.FactHeld:
		return ev.view.FactHeld(v.Fact), nil
	case domain.And:
		for _, sub := range v.Conditions {
			ok, err := ev.eval(ctx, sub)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case domain.Or:
		for _, sub := range v.Conditions {
			ok, err := ev.eval(ctx, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case domain.Not:
		ok, err := ev.eval(ctx, v.Condition)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case nil:
		return false, domain.ConditionError{Reason: "nil condition"}
	default:
		return false, domain.ConditionError{Reason: fmt.Sprintf("unknown condition type %T", c)}
	}
}

// elementSpan resolves the element's effective interval: the state view's
// current position when present (simulations may have moved it), otherwise the
// model's declared span.
func (ev evaluator) elementSpan(id string) (domain.Interval, error) {
	if _, ok := ev.model.FindElement(id); !ok {
		return domain.Interval{}, domain.ReferenceError{Kind: domain.EntityElement, ID: id}
	}
	if iv, ok := ev.view.ElementInterval(id); ok {
		return iv, nil
	}
	return ev.model.ElementSpan(id)
}

func (ev evaluator) strength(ctx context.Context, a, b domain.Interval, mapID string) (float64, error) {
	if ev.contacts == nil {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: mapID, Cause: errors.New("no contact provider configured")}
	}
	if ev.cfg.ContactTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ev.cfg.ContactTimeout)
		defer cancel()
	}
	strength, err := ev.contacts.Strength(ctx, a, b, mapID)
	if err != nil {
		var refErr domain.ReferenceError
		if errors.As(err, &refErr) {
			return 0, err
		}
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: mapID, Cause: err}
	}
	return strength, nil
}
