package core

import (
	"go/types"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestStoreImplementationsStayInSanctionedPackages ensures only the vetted
// persistence packages provide concrete implementations of domain.Store, so a
// new backend cannot appear without an explicit test update.
func TestStoreImplementationsStayInSanctionedPackages(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes, Tests: true}
	pkgs, err := packages.Load(cfg, "locuscore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var store *types.Interface
	for _, p := range pkgs {
		if p.PkgPath != "locuscore/pkg/domain" {
			continue
		}
		obj := p.Types.Scope().Lookup("Store")
		if obj == nil {
			t.Fatalf("domain.Store not found")
		}
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok {
			t.Fatalf("domain.Store is not an interface")
		}
		store = iface
	}
	if store == nil {
		t.Fatalf("failed to resolve the Store interface")
	}

	allowed := map[string]struct{}{
		"locuscore/internal/infra/persistence/memory":   {},
		"locuscore/internal/infra/persistence/sqlite":   {},
		"locuscore/internal/infra/persistence/postgres": {},
	}
	var unexpected []string
	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}
		for _, name := range p.Types.Scope().Names() {
			named, ok := p.Types.Scope().Lookup(name).Type().(*types.Named)
			if !ok {
				continue
			}
			if _, ok := named.Underlying().(*types.Struct); !ok {
				continue
			}
			if types.Implements(types.NewPointer(named), store) {
				if _, ok := allowed[p.PkgPath]; !ok {
					unexpected = append(unexpected, p.PkgPath+"."+name)
				}
			}
		}
	}
	if len(unexpected) > 0 {
		t.Fatalf("unexpected Store implementations (update the allowed list when adding a backend on purpose):\n%v", unexpected)
	}
}
