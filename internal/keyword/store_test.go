package keyword

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSeedAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh store count = %d, want 0", n)
	}

	if err := s.InsertDefaults(ctx, Defaults()); err != nil {
		t.Fatalf("InsertDefaults: %v", err)
	}
	kws, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(kws) != len(Defaults()) {
		t.Errorf("loaded %d keywords, want %d", len(kws), len(Defaults()))
	}

	byWord := make(map[string]Keyword)
	for _, kw := range kws {
		byWord[kw.Word] = kw
	}
	got, ok := byWord["캄보디아"]
	if !ok {
		t.Fatal("seed keyword 캄보디아 missing")
	}
	if got.Category != "job_scam" || got.RiskLevel != 5 || !got.Active {
		t.Errorf("캄보디아 = %+v, want job_scam/5/active", got)
	}
	if got.AddedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on insert")
	}
}

func TestStoreInsertDefaultsIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.InsertDefaults(ctx, Defaults()); err != nil {
		t.Fatalf("InsertDefaults: %v", err)
	}
	if err := s.InsertDefaults(ctx, Defaults()); err != nil {
		t.Fatalf("InsertDefaults (second): %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != len(Defaults()) {
		t.Errorf("count after reseed = %d, want %d", n, len(Defaults()))
	}
}
