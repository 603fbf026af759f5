package contact

import (
	"context"
	"sync"

	"locuscore/pkg/domain"
)

var _ domain.ContactProvider = (*MemoryProvider)(nil)

// MemoryProvider serves statically registered contact maps. It is the
// reference backend for tests and for callers that embed the engine with
// precomputed contact data.
type MemoryProvider struct {
	mu   sync.RWMutex
	maps map[string]Document
}

// NewMemory constructs an empty in-memory contact provider.
func NewMemory() *MemoryProvider {
	return &MemoryProvider{maps: make(map[string]Document)}
}

// Register installs or replaces a contact map document.
func (p *MemoryProvider) Register(contactMapID string, doc Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maps[contactMapID] = doc
}

// RegisterPair records a single symmetric contact strength, creating the map
// when needed. Convenient for tests.
func (p *MemoryProvider) RegisterPair(contactMapID string, a, b domain.Interval, strength float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	doc := p.maps[contactMapID]
	doc.Contacts = append(doc.Contacts, Entry{
		A: a.String(), B: b.String(), Strength: strength,
		a: a, b: b,
	})
	p.maps[contactMapID] = doc
}

// Strength implements domain.ContactProvider.
func (p *MemoryProvider) Strength(_ context.Context, a, b domain.Interval, contactMapID string) (float64, error) {
	p.mu.RLock()
	doc, ok := p.maps[contactMapID]
	p.mu.RUnlock()
	if !ok {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID}
	}
	return doc.Strength(a, b), nil
}
