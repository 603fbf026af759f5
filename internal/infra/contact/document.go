// Package contact provides Contact Provider backends resolving Hi-C contact
// strengths from in-memory fixtures, local JSON documents, or S3 objects.
// The engine consumes providers through the domain.ContactProvider boundary;
// every backend surfaces resolution failures as domain.ReferenceError.
package contact

import (
	"encoding/json"
	"fmt"
	"io"

	"locuscore/pkg/domain"
)

// Driver identifies a concrete contact provider backend.
type Driver string

const (
	// DriverFilesystem reads contact map documents from a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 reads contact map documents from an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory serves statically registered strengths (tests, embedding).
	DriverMemory Driver = "memory"
)

// Entry is one recorded contact between two genomic regions. Locations use
// chromosome:start-end tokens.
type Entry struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Strength float64 `json:"strength"`

	a, b domain.Interval
}

// Document is the JSON shape of one contact map. Queries that match no entry
// resolve to DefaultStrength.
type Document struct {
	MapID           string  `json:"map_id,omitempty"`
	DefaultStrength float64 `json:"default_strength"`
	Contacts        []Entry `json:"contacts"`
}

// DecodeDocument parses and validates a contact map document.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode contact map: %w", err)
	}
	for i := range doc.Contacts {
		e := &doc.Contacts[i]
		var err error
		if e.a, err = domain.ParseLocation(e.A); err != nil {
			return Document{}, fmt.Errorf("contact entry %d: %w", i, err)
		}
		if e.b, err = domain.ParseLocation(e.B); err != nil {
			return Document{}, fmt.Errorf("contact entry %d: %w", i, err)
		}
		if e.Strength < 0 || e.Strength > 1 {
			return Document{}, fmt.Errorf("contact entry %d: strength %v outside [0,1]", i, e.Strength)
		}
	}
	if doc.DefaultStrength < 0 || doc.DefaultStrength > 1 {
		return Document{}, fmt.Errorf("default strength %v outside [0,1]", doc.DefaultStrength)
	}
	return doc, nil
}

// Strength resolves the contact strength for a query pair. An entry matches
// when its regions overlap the query regions in either orientation; the
// strongest matching entry wins, falling back to DefaultStrength.
func (d Document) Strength(a, b domain.Interval) float64 {
	best := d.DefaultStrength
	for _, e := range d.Contacts {
		forward := e.a.Overlaps(a) && e.b.Overlaps(b)
		reverse := e.a.Overlaps(b) && e.b.Overlaps(a)
		if (forward || reverse) && e.Strength > best {
			best = e.Strength
		}
	}
	return best
}

// pairKey builds an orientation-independent cache/lookup key for a query.
func pairKey(a, b domain.Interval, contactMapID string) string {
	as, bs := a.String(), b.String()
	if bs < as {
		as, bs = bs, as
	}
	return contactMapID + "|" + as + "|" + bs
}
