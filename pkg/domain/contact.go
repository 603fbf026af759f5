package domain

import "context"

// ContactProvider is the narrow boundary to an external 3D-contact data source
// such as a Hi-C backend. The engine consumes, never implements, this
// interface; it owns only the threshold policy turning a strength into the
// is_in_contact predicate.
type ContactProvider interface {
	// Strength returns the contact strength in [0,1] between two genomic
	// intervals in the named contact map. Failure to resolve the map or its
	// backing source must surface as a ReferenceError, not a silent zero.
	Strength(ctx context.Context, a, b Interval, contactMapID string) (float64, error)
}
