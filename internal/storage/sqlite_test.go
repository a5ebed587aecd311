package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func TestSQLiteRepositorySaveLoad(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("new sqlite repository: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	// Fresh database loads as an empty registry.
	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("profiles = %d, want 0", empty.Len())
	}

	want := sampleRegistry()
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("profiles = %d, want 2", got.Len())
	}
	// Load order matches insertion order.
	if got.All()[0].Username != "alice" || got.All()[1].Username != "bob" {
		t.Fatalf("profile order = %s, %s", got.All()[0].Username, got.All()[1].Username)
	}

	alice := got.All()[0]
	if !alice.CheckPassword("hunter2") {
		t.Fatalf("alice password did not round-trip")
	}
	txs := alice.Transactions.All()
	if len(txs) != 2 || txs[0].Kind != core.Income || txs[1].Amount.Cents != 4599 {
		t.Fatalf("alice transactions did not round-trip: %+v", txs)
	}
	if alice.Transactions.NextID() != 3 {
		t.Fatalf("alice nextID = %d, want 3", alice.Transactions.NextID())
	}
	if b := alice.Budgets.Get("Transport"); b.Cents != 10000 {
		t.Fatalf("alice Transport budget = %v", b)
	}

	// Saving again replaces the snapshot instead of duplicating rows.
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("second save: %v", err)
	}
	again, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again.Len() != 2 || again.All()[0].Transactions.Len() != 2 {
		t.Fatalf("second save duplicated state: profiles=%d", again.Len())
	}
}
