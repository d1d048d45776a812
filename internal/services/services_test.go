package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// newTestRepo opens a fresh SQLite database seeded with one user and one
// category, since expenses require both to exist.
func newTestRepo(t *testing.T) (*storage.SQLiteRepository, *core.User, *core.Category) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	user, err := repo.CreateUser(ctx, "tester", "tester@example.com", "not-a-real-hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, "Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return repo, user, cat
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
