package postgres

import (
	"context"
	"database/sql"
	"testing"

	"locuscore/internal/infra/persistence/postgres/testutil"
	"locuscore/pkg/domain"
)

func withStub(t *testing.T, conn *testutil.StubConn) {
	t.Helper()
	prev := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) {
		return testutil.OpenDB(conn), nil
	}
	t.Cleanup(func() { sqlOpen = prev })
}

func testModel() domain.Model {
	return domain.Model{
		Loci:     []domain.Locus{{ID: "locus1", Chromosome: "chr5", Start: 10, End: 400}},
		Elements: []domain.Element{{ID: "gene", Type: "gene", LocusID: "locus1"}},
	}
}

func TestCommitPersistsBuckets(t *testing.T) {
	conn := testutil.NewStubConn()
	withStub(t, conn)

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetModel(testModel()); err != nil {
		t.Fatalf("set model: %v", err)
	}
	snap := store.Snapshot()
	snap.SetActivity("gene", domain.ActivityMedium)
	if err := store.Commit(context.Background(), snap); err != nil {
		t.Fatalf("commit: %v", err)
	}
	for _, bucket := range postgresBuckets {
		if _, ok := conn.Buckets[bucket]; !ok {
			t.Errorf("bucket %s not persisted", bucket)
		}
	}

	// a second open against the same backing state hydrates the commit
	reopened, err := NewStore("")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Baseline().Activity("gene"); got != domain.ActivityMedium {
		t.Fatalf("hydrated activity = %s, want medium", got)
	}
}

func TestOpenFailsWhenUnreachable(t *testing.T) {
	conn := testutil.NewStubConn()
	conn.FailPing = true
	withStub(t, conn)
	if _, err := NewStore("postgres://example/nope"); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestCommitSurfacesBeginFailure(t *testing.T) {
	conn := testutil.NewStubConn()
	withStub(t, conn)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetModel(testModel()); err != nil {
		t.Fatalf("set model: %v", err)
	}
	conn.FailBegin = true
	snap := store.Snapshot()
	snap.SetActivity("gene", domain.ActivityHigh)
	if err := store.Commit(context.Background(), snap); err == nil {
		t.Fatalf("expected begin failure to propagate")
	}
}
