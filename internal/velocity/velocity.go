// Package velocity tracks recent-transaction counts per user, feeding
// the risk scorer's frequency factor.
package velocity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// DefaultWindow is the lookback used for the frequency factor.
const DefaultWindow = time.Hour

const countCacheKey = "velocity:recent"

// Service counts a user's recent transactions. The repository is the
// source of truth; the cache provides a short-lived fast path plus a
// windowed counter that tracks writes between cache refreshes.
type Service struct {
	repo  domain.Repository
	cache domain.Cache
}

// NewService creates a velocity service. cache may be nil.
func NewService(repo domain.Repository, cache domain.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Record notes that a transaction was just saved for the user: bumps
// the windowed counter and invalidates the cached count.
func (s *Service) Record(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_, _ = s.cache.IncrementCounter(ctx, userID, "tx", DefaultWindow)
	_ = s.cache.Delete(ctx, userID, countCacheKey)
}

// RecentCount returns the number of the user's transactions within the
// default window.
func (s *Service) RecentCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: userID is required", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, userID, countCacheKey); err == nil && raw != nil {
			if n, err := strconv.Atoi(string(raw)); err == nil {
				return n, nil
			}
		}
	}

	if s.repo == nil {
		return 0, fmt.Errorf("no data source available")
	}

	since := time.Now().Add(-DefaultWindow)
	n, err := s.repo.CountRecentTransactions(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent transactions: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, userID, countCacheKey, []byte(strconv.Itoa(n)), 30*time.Second)
	}

	return n, nil
}
