package directory

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "directory.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store *Store, recs ...Record) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range recs {
		if _, err := store.Add(ctx, rec); err != nil {
			t.Fatalf("add %q: %v", rec.Name, err)
		}
	}
}

func TestAddAssignsID(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Add(context.Background(), Record{Name: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("expected an assigned ID")
	}

	if _, err := store.Add(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestQueryMatchesNameAndEmail(t *testing.T) {
	store := openTestStore(t)
	seed(t, store,
		Record{Name: "Ada Lovelace", Email: "ada@analytical.example"},
		Record{Name: "Charles Babbage", Email: "charles@analytical.example"},
		Record{Name: "Grace Hopper", Phone: "+1 555 0100"},
	)

	byName, err := store.Query(context.Background(), "grace", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Grace Hopper" {
		t.Fatalf("expected Grace Hopper, got %+v", byName)
	}

	byEmail, err := store.Query(context.Background(), "analytical", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byEmail) != 2 {
		t.Fatalf("expected 2 matches on email domain, got %d", len(byEmail))
	}
	// Results come back ordered by name.
	if byEmail[0].Name != "Ada Lovelace" {
		t.Fatalf("expected name ordering, got %+v", byEmail)
	}
}

func TestQueryRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	seed(t, store,
		Record{Name: "One"}, Record{Name: "Two"}, Record{Name: "Three"},
	)

	got, err := store.Query(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestCount(t *testing.T) {
	store := openTestStore(t)

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty store, got %d contacts", n)
	}

	seed(t, store, Record{Name: "One"}, Record{Name: "Two"})

	n, err = store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 contacts, got %d", n)
	}
}

func TestLookupPipeline(t *testing.T) {
	store := openTestStore(t)
	seed(t, store,
		Record{Name: "Ada Lovelace", Email: "ada@analytical.example"},
		Record{Name: "Anonymous"},
		Record{Name: "Grace Hopper", Phone: "+1 555 0100"},
	)

	lines, err := Lookup(context.Background(), store, "a", 10, Reachable)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// "Anonymous" matches the query but has no contact point.
	if len(lines) != 2 {
		t.Fatalf("expected 2 formatted lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Ada Lovelace <ada@analytical.example>" {
		t.Fatalf("unexpected formatting: %q", lines[0])
	}
	if lines[1] != "Grace Hopper +1 555 0100" {
		t.Fatalf("unexpected formatting: %q", lines[1])
	}
}
