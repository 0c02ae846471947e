package guard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// highRiskCategories is the fixed set of spending categories correlated
// with impulsive purchasing. Matching is case-insensitive.
var highRiskCategories = map[string]bool{
	"jogos":       true,
	"delivery":    true,
	"lazer":       true,
	"compras":     true,
	"assinaturas": true,
}

// IsHighRiskCategory reports whether category belongs to the fixed
// high-risk set. Unknown or empty categories are not high risk.
func IsHighRiskCategory(category string) bool {
	return highRiskCategories[strings.ToLower(category)]
}

// ExtraScorer supplies additional risk factors beyond the fixed four,
// e.g. from operator-defined CEL rules. May be nil.
type ExtraScorer func(ctx context.Context, in ScoreInput) []domain.RiskFactor

// ScoreInput holds the transaction data for risk scoring.
type ScoreInput struct {
	UserID      string
	Amount      float64
	Category    string
	Timestamp   time.Time
	RecentCount int
}

// Scorer converts a transaction into a bounded 0-100 risk assessment.
// Pure apart from the optional extra factor source; never mutates state.
type Scorer struct {
	window          NightWindow
	amountThreshold float64
	riskThreshold   int
	delayMinutes    int
	extra           ExtraScorer
}

// NewScorer validates the guard configuration and builds a scorer.
func NewScorer(cfg domain.GuardConfig, extra ExtraScorer) (*Scorer, error) {
	window, err := NewNightWindow(cfg.NightStart, cfg.NightEnd)
	if err != nil {
		return nil, err
	}
	if cfg.AmountThreshold <= 0 {
		return nil, fmt.Errorf("%w: amount threshold must be positive, got %.2f",
			domain.ErrInvalidInput, cfg.AmountThreshold)
	}
	if cfg.RiskThreshold < 0 || cfg.RiskThreshold > 100 {
		return nil, fmt.Errorf("%w: risk threshold must be in [0,100], got %d",
			domain.ErrInvalidInput, cfg.RiskThreshold)
	}
	if cfg.DelayMinutes < 0 {
		return nil, fmt.Errorf("%w: delay minutes must be non-negative, got %d",
			domain.ErrInvalidInput, cfg.DelayMinutes)
	}
	return &Scorer{
		window:          window,
		amountThreshold: cfg.AmountThreshold,
		riskThreshold:   cfg.RiskThreshold,
		delayMinutes:    cfg.DelayMinutes,
		extra:           extra,
	}, nil
}

// Window returns the configured night window.
func (s *Scorer) Window() NightWindow { return s.window }

// AmountThreshold returns the configured amount threshold.
func (s *Scorer) AmountThreshold() float64 { return s.amountThreshold }

// DelayMinutes returns the configured base delay.
func (s *Scorer) DelayMinutes() int { return s.delayMinutes }

// Score computes the additive risk assessment for a transaction.
// A negative amount or recent count is a caller contract violation.
func (s *Scorer) Score(ctx context.Context, in ScoreInput) (*domain.RiskAssessment, error) {
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative, got %.2f",
			domain.ErrInvalidInput, in.Amount)
	}
	if in.RecentCount < 0 {
		return nil, fmt.Errorf("%w: recent count must be non-negative, got %d",
			domain.ErrInvalidInput, in.RecentCount)
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
		in.Timestamp = ts
	}

	var factors []domain.RiskFactor
	total := 0.0

	// 1. Night window
	isNight := s.window.Contains(ts)
	if isNight {
		score := 30 * HourMultiplier(ts)
		total += score
		factors = append(factors, domain.RiskFactor{
			Factor:      domain.FactorNight,
			Description: fmt.Sprintf("Transação às %02d:%02d", ts.Hour(), ts.Minute()),
			Score:       score,
		})
	}

	// 2. Amount vs threshold, contribution capped at 25*3 = 75
	if in.Amount >= s.amountThreshold {
		score := 25 * math.Min(in.Amount/s.amountThreshold, 3.0)
		total += score
		factors = append(factors, domain.RiskFactor{
			Factor: domain.FactorAmount,
			Description: fmt.Sprintf("R$%.2f acima do limite de R$%.2f",
				in.Amount, s.amountThreshold),
			Score: score,
		})
	}

	// 3. High-risk category, amplified at night
	if IsHighRiskCategory(in.Category) {
		score := 20.0
		if isNight {
			score *= 1.5
		}
		total += score
		factors = append(factors, domain.RiskFactor{
			Factor:      domain.FactorCategory,
			Description: fmt.Sprintf("Categoria '%s' é considerada de alto risco", in.Category),
			Score:       score,
		})
	}

	// 4. Recent-activity frequency
	if in.RecentCount >= 3 {
		score := math.Min(float64(in.RecentCount)*5, 20)
		total += score
		factors = append(factors, domain.RiskFactor{
			Factor:      domain.FactorFrequency,
			Description: fmt.Sprintf("%d transações na última hora", in.RecentCount),
			Score:       score,
		})
	}

	// 5. Custom rule contributions
	if s.extra != nil {
		for _, f := range s.extra(ctx, in) {
			total += f.Score
			factors = append(factors, f)
		}
	}

	final := int(math.Floor(total))
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}

	return &domain.RiskAssessment{
		Score:          final,
		IsHighRisk:     final >= s.riskThreshold,
		IsNight:        isNight,
		Factors:        factors,
		Recommendation: domain.RecommendationForScore(final, s.delayMinutes),
	}, nil
}
