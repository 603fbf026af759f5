package memory

import (
	"testing"

	"locuscore/testutil"
)

func TestPersistenceDoesNotImportServiceLayer(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ForbidPrefix("locuscore/internal/core"),
		"persistence backends sit below the service layer")
}
