package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sideline-app/client/internal/store"
	"github.com/sideline-app/client/internal/tests/testutil"
)

func TestStateRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewStateRepository(t)

	if _, err := repo.Get(ctx, "token"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := repo.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "def" {
		t.Errorf("Get() = %q, want %q", got, "def")
	}

	if err := repo.Delete(ctx, "token", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "token"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStateRepositoryNamespaces(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewStateRepository(t)

	if err := repo.Set(ctx, "id", "5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("Delete() with no keys error = %v", err)
	}
	got, err := repo.Get(ctx, "id")
	if err != nil || got != "5" {
		t.Errorf("Get() = %q, %v; want 5, nil", got, err)
	}
}
