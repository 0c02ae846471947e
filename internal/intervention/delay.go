package intervention

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

type delayKey struct {
	userID string
	txID   string
}

// DelayLedger tracks per-transaction reflection holds. Records are
// removed lazily: the first status query after expiry deletes the
// record and reports Expired once. Safe for concurrent use.
type DelayLedger struct {
	mu      sync.Mutex
	records map[delayKey]domain.DelayRecord
	now     func() time.Time
}

// NewDelayLedger creates an empty ledger.
func NewDelayLedger() *DelayLedger {
	return &DelayLedger{
		records: make(map[delayKey]domain.DelayRecord),
		now:     time.Now,
	}
}

// SetClock overrides the ledger's clock. Test hook.
func (l *DelayLedger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// SetDelay creates or overwrites the hold for (userID, txID).
// Last writer wins.
func (l *DelayLedger) SetDelay(userID, txID string, minutes int) (domain.DelayRecord, error) {
	if userID == "" || txID == "" {
		return domain.DelayRecord{}, fmt.Errorf("%w: userID and txID are required",
			domain.ErrInvalidInput)
	}
	if minutes <= 0 {
		return domain.DelayRecord{}, fmt.Errorf("%w: delay minutes must be positive, got %d",
			domain.ErrInvalidInput, minutes)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec := domain.DelayRecord{
		UserID:    userID,
		TxID:      txID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(minutes) * time.Minute),
		Minutes:   minutes,
	}
	l.records[delayKey{userID, txID}] = rec

	slog.Info("delay hold created",
		"user_id", userID,
		"tx_id", txID,
		"minutes", minutes,
	)

	return rec, nil
}

// CheckDelayStatus reports whether the hold still gates confirmation.
// A missing record is not an error; it means no hold applies.
func (l *DelayLedger) CheckDelayStatus(userID, txID string) domain.DelayStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := delayKey{userID, txID}
	rec, ok := l.records[key]
	if !ok {
		return domain.DelayStatus{Active: false, CanProceed: true}
	}

	now := l.now()
	if !now.Before(rec.ExpiresAt) {
		delete(l.records, key)
		return domain.DelayStatus{
			Active:     false,
			Expired:    true,
			CanProceed: true,
		}
	}

	remaining := rec.ExpiresAt.Sub(now)
	expiresAt := rec.ExpiresAt
	return domain.DelayStatus{
		Active:           true,
		RemainingSeconds: int(remaining.Seconds()),
		RemainingMinutes: math.Round(remaining.Minutes()*10) / 10,
		ExpiresAt:        &expiresAt,
		CanProceed:       false,
	}
}

// ActiveCount returns the number of live holds. Expired-but-unqueried
// records still count; they are removed only on query.
func (l *DelayLedger) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
