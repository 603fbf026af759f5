package contact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"locuscore/pkg/domain"
)

var _ domain.ContactProvider = (*FSProvider)(nil)

// FSProvider resolves contact maps from JSON documents under a root
// directory, one file per contact map id (<root>/<map_id>.json). Documents
// are parsed on every lookup; wrap the provider with NewCached when lookup
// volume matters.
type FSProvider struct {
	root string
}

// NewFilesystem returns a filesystem-backed contact provider rooted at path,
// creating the directory if needed.
func NewFilesystem(root string) (*FSProvider, error) {
	if root == "" {
		root = "./contactmaps"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSProvider{root: root}, nil
}

// sanitizeMapID forbids path traversal and separators in contact map ids.
func sanitizeMapID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("empty contact map id")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid contact map id %q", id)
	}
	return nil
}

// Strength implements domain.ContactProvider.
func (p *FSProvider) Strength(_ context.Context, a, b domain.Interval, contactMapID string) (float64, error) {
	if err := sanitizeMapID(contactMapID); err != nil {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	path := filepath.Join(p.root, contactMapID+".json")
	f, err := os.Open(path) // #nosec G304 -- path is sanitized above
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID}
		}
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	defer func() { _ = f.Close() }()
	doc, err := DecodeDocument(f)
	if err != nil {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	return doc.Strength(a, b), nil
}
