package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// Guard wraps the scorer with a stateful protection toggle and a
// temporary bypass window, and emits alert signals for high-risk
// transactions. Safe for concurrent use.
type Guard struct {
	scorer *Scorer
	bus    domain.EventBus

	mu          sync.Mutex
	enabled     bool
	bypassUntil time.Time

	now func() time.Time
}

// NewGuard creates a gate around the scorer. bus may be nil; alerts are
// then only logged.
func NewGuard(scorer *Scorer, bus domain.EventBus) *Guard {
	return &Guard{
		scorer:  scorer,
		bus:     bus,
		enabled: true,
		now:     time.Now,
	}
}

// SetClock overrides the gate's clock. Test hook.
func (g *Guard) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// EnableProtection turns protection on and clears any bypass.
// Idempotent.
func (g *Guard) EnableProtection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = true
	g.bypassUntil = time.Time{}
	slog.Info("impulse protection enabled")
}

// DisableProtection turns protection off. Idempotent.
func (g *Guard) DisableProtection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = false
	slog.Warn("impulse protection disabled")
}

// TemporaryBypass suppresses protection for the given duration and
// returns the expiry. Protection remains conceptually on.
func (g *Guard) TemporaryBypass(minutes int) (time.Time, error) {
	if minutes <= 0 {
		return time.Time{}, fmt.Errorf("%w: bypass minutes must be positive, got %d",
			domain.ErrInvalidInput, minutes)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bypassUntil = g.now().Add(time.Duration(minutes) * time.Minute)
	slog.Warn("temporary bypass activated", "until", g.bypassUntil.Format("15:04"))
	return g.bypassUntil, nil
}

// Status returns a snapshot of the protection state.
func (g *Guard) Status() domain.ProtectionStatus {
	g.mu.Lock()
	enabled := g.enabled
	bypassUntil := g.bypassUntil
	now := g.now()
	g.mu.Unlock()

	st := domain.ProtectionStatus{
		Enabled:         enabled,
		IsNightPeriod:   g.scorer.Window().Contains(now),
		CurrentHourRisk: HourMultiplier(now),
		BypassActive:    !bypassUntil.IsZero() && now.Before(bypassUntil),
		NightStart:      g.scorer.Window().Start().String(),
		NightEnd:        g.scorer.Window().End().String(),
		AmountThreshold: g.scorer.AmountThreshold(),
	}
	if !bypassUntil.IsZero() {
		st.BypassUntil = &bypassUntil
	}
	return st
}

// Evaluate decides whether a transaction is allowed. Disabled protection
// and an active bypass short-circuit without scoring; otherwise the
// transaction is scored and a high-risk result denies it and publishes
// an alert.
func (g *Guard) Evaluate(ctx context.Context, in ScoreInput) (*domain.GateResult, error) {
	g.mu.Lock()
	enabled := g.enabled
	bypassUntil := g.bypassUntil
	now := g.now()
	g.mu.Unlock()

	if !enabled {
		return &domain.GateResult{
			Allowed:           true,
			ProtectionEnabled: false,
			Reason:            "Proteção desativada",
		}, nil
	}

	if !bypassUntil.IsZero() && now.Before(bypassUntil) {
		return &domain.GateResult{
			Allowed:           true,
			ProtectionEnabled: true,
			BypassActive:      true,
			Reason:            fmt.Sprintf("Bypass ativo até %s", bypassUntil.Format("15:04")),
		}, nil
	}

	assessment, err := g.scorer.Score(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &domain.GateResult{
		Allowed:           !assessment.IsHighRisk,
		ProtectionEnabled: true,
		Assessment:        assessment,
		Reason:            assessment.Recommendation.Message,
	}

	if assessment.IsHighRisk {
		g.emitAlert(ctx, in, assessment)
	}

	return result, nil
}

// emitAlert publishes a high-risk alert to the bus. Delivery failures
// are logged, never propagated; gating must not depend on the sink.
func (g *Guard) emitAlert(ctx context.Context, in ScoreInput, assessment *domain.RiskAssessment) {
	alertType := domain.AlertImpulse
	if assessment.IsNight {
		alertType = domain.AlertNight
	}

	category := in.Category
	if category == "" {
		category = "categoria desconhecida"
	}

	alert := domain.Alert{
		Type:      alertType,
		UserID:    in.UserID,
		Message:   fmt.Sprintf("Transação de R$%.2f em %s", in.Amount, category),
		RiskScore: assessment.Score,
		CreatedAt: g.now().UTC(),
	}

	slog.Warn("high-risk transaction detected",
		"user_id", in.UserID,
		"type", alert.Type,
		"score", alert.RiskScore,
		"amount", in.Amount,
	)

	if g.bus == nil {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		slog.Error("failed to marshal alert", "error", err)
		return
	}
	if err := g.bus.Publish(ctx, in.UserID, domain.TopicAlert, payload); err != nil {
		slog.Error("failed to publish alert", "user_id", in.UserID, "error", err)
	}
}
