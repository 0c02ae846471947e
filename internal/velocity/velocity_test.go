package velocity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wemarques/dashboard-financeiro/internal/cache"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/repository"
)

func newTestService(t *testing.T, withCache bool) (*Service, domain.Repository) {
	t.Helper()

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	var c domain.Cache
	if withCache {
		c = cache.NewLRUCache(100)
	}
	return NewService(repo, c), repo
}

func saveTx(t *testing.T, repo domain.Repository, userID string, ts time.Time) {
	t.Helper()
	err := repo.SaveTransaction(context.Background(), userID, &domain.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    25,
		Category:  "mercado",
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("failed to save transaction: %v", err)
	}
}

func TestRecentCount(t *testing.T) {
	ctx := context.Background()

	t.Run("CountsWithinWindow", func(t *testing.T) {
		svc, repo := newTestService(t, false)

		now := time.Now()
		saveTx(t, repo, "user-001", now.Add(-10*time.Minute))
		saveTx(t, repo, "user-001", now.Add(-30*time.Minute))
		saveTx(t, repo, "user-001", now.Add(-2*time.Hour)) // outside window

		n, err := svc.RecentCount(ctx, "user-001")
		if err != nil {
			t.Fatalf("RecentCount failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 recent transactions, got %d", n)
		}
	})

	t.Run("UserIsolation", func(t *testing.T) {
		svc, repo := newTestService(t, false)

		saveTx(t, repo, "alice", time.Now())

		n, err := svc.RecentCount(ctx, "bob")
		if err != nil {
			t.Fatalf("RecentCount failed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 for bob, got %d", n)
		}
	})

	t.Run("RequiresUserID", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		if _, err := svc.RecentCount(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("CacheFastPath", func(t *testing.T) {
		svc, repo := newTestService(t, true)

		saveTx(t, repo, "user-001", time.Now())

		n, err := svc.RecentCount(ctx, "user-001")
		if err != nil || n != 1 {
			t.Fatalf("expected count 1, got %d (%v)", n, err)
		}

		// A write that bypasses Record is invisible until the cached
		// count expires or is invalidated.
		saveTx(t, repo, "user-001", time.Now())
		n, _ = svc.RecentCount(ctx, "user-001")
		if n != 1 {
			t.Errorf("expected cached count 1, got %d", n)
		}

		// Record invalidates the cache; the next read hits the database.
		svc.Record(ctx, "user-001")
		n, _ = svc.RecentCount(ctx, "user-001")
		if n != 2 {
			t.Errorf("expected fresh count 2 after Record, got %d", n)
		}
	})

	t.Run("RecordWithoutCacheIsNoop", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		svc.Record(ctx, "user-001") // must not panic
	})
}
