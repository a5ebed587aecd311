package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func TestFileRepositoryMissingFileYieldsEmptyRegistry(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "users.txt"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	reg, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("profiles = %d, want 0", reg.Len())
	}
}

func TestFileRepositorySaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "users.txt")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	want := sampleRegistry()
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// No temp file must survive a successful save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("profiles = %d, want %d", got.Len(), want.Len())
	}
	alice, err := got.FindByUsername("alice")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}
	if alice.Transactions.Len() != 2 {
		t.Fatalf("alice transactions = %d, want 2", alice.Transactions.Len())
	}
	if b := alice.Budgets.Get("Food"); b != (core.Money{Cents: 30000}) {
		t.Fatalf("alice Food budget = %v", b)
	}
}

func TestFileRepositorySaveOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	first := sampleRegistry()
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	// A smaller registry must fully replace the previous file, not append.
	second, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	alice, _ := second.FindByUsername("alice")
	if err := alice.Transactions.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	final, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("final load: %v", err)
	}
	aliceFinal, _ := final.FindByUsername("alice")
	if aliceFinal.Transactions.Len() != 1 {
		t.Fatalf("alice transactions = %d, want 1", aliceFinal.Transactions.Len())
	}
	// Deleted IDs stay unavailable after the round-trip.
	if aliceFinal.Transactions.NextID() != 3 {
		t.Fatalf("alice nextID = %d, want 3", aliceFinal.Transactions.NextID())
	}
}
