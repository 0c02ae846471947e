package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

func newTestScorer(t *testing.T, extra ExtraScorer) *Scorer {
	t.Helper()
	s, err := NewScorer(domain.GuardConfig{
		NightStart:      "00:00",
		NightEnd:        "06:00",
		AmountThreshold: 100,
		RiskThreshold:   70,
		DelayMinutes:    5,
	}, extra)
	if err != nil {
		t.Fatalf("failed to create scorer: %v", err)
	}
	return s
}

func factorScore(a *domain.RiskAssessment, tag string) (float64, bool) {
	for _, f := range a.Factors {
		if f.Factor == tag {
			return f.Score, true
		}
	}
	return 0, false
}

func TestScorerFactors(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := context.Background()

	t.Run("CleanDaytimePurchase", func(t *testing.T) {
		a, err := s.Score(ctx, ScoreInput{Amount: 50, Category: "mercado", Timestamp: at(14, 0)})
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if a.Score != 0 {
			t.Errorf("expected score 0, got %d", a.Score)
		}
		if a.IsHighRisk || a.IsNight {
			t.Errorf("expected clean assessment, got %+v", a)
		}
		if len(a.Factors) != 0 {
			t.Errorf("expected no factors, got %v", a.Factors)
		}
		if a.Recommendation.Level != domain.LevelLow {
			t.Errorf("expected low recommendation, got %s", a.Recommendation.Level)
		}
	})

	t.Run("NightFactorUsesHourMultiplier", func(t *testing.T) {
		a, err := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(2, 30)})
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		score, ok := factorScore(a, domain.FactorNight)
		if !ok {
			t.Fatal("expected night factor at 02:30")
		}
		if score != 60 { // 30 * 2.0 peak multiplier
			t.Errorf("expected night factor 60, got %.1f", score)
		}
		if !a.IsNight {
			t.Error("expected IsNight")
		}
	})

	t.Run("NightBoundaryInclusive", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(6, 0)})
		if score, ok := factorScore(a, domain.FactorNight); !ok || score != 30 {
			t.Errorf("expected night factor 30 at 06:00 exactly (multiplier 1.0), got %v %v", score, ok)
		}

		a, _ = s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(6, 1)})
		if _, ok := factorScore(a, domain.FactorNight); ok {
			t.Error("expected no night factor at 06:01")
		}
	})

	t.Run("AmountFactorProportional", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 150, Timestamp: at(14, 0)})
		score, ok := factorScore(a, domain.FactorAmount)
		if !ok {
			t.Fatal("expected amount factor for R$150 against a R$100 threshold")
		}
		if score != 37.5 { // 25 * 1.5
			t.Errorf("expected amount factor 37.5, got %.1f", score)
		}
		if a.Score != 37 { // floor
			t.Errorf("expected floored score 37, got %d", a.Score)
		}
	})

	t.Run("AmountFactorCappedAt75", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 100000, Timestamp: at(14, 0)})
		if score, _ := factorScore(a, domain.FactorAmount); score != 75 {
			t.Errorf("expected capped amount factor 75, got %.1f", score)
		}
	})

	t.Run("AmountBelowThresholdIgnored", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 99.99, Timestamp: at(14, 0)})
		if _, ok := factorScore(a, domain.FactorAmount); ok {
			t.Error("expected no amount factor below threshold")
		}
	})

	t.Run("CategoryFactorDaytime", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Category: "delivery", Timestamp: at(14, 0)})
		if score, _ := factorScore(a, domain.FactorCategory); score != 20 {
			t.Errorf("expected category factor 20, got %.1f", score)
		}
	})

	t.Run("CategoryFactorAmplifiedAtNight", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Category: "Jogos", Timestamp: at(2, 0)})
		if score, _ := factorScore(a, domain.FactorCategory); score != 30 { // 20 * 1.5
			t.Errorf("expected amplified category factor 30, got %.1f", score)
		}
	})

	t.Run("FrequencyBelowThresholdIgnored", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(14, 0), RecentCount: 2})
		if _, ok := factorScore(a, domain.FactorFrequency); ok {
			t.Error("expected no frequency factor for 2 recent transactions")
		}
	})

	t.Run("FrequencyFactorCapped", func(t *testing.T) {
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(14, 0), RecentCount: 3})
		if score, _ := factorScore(a, domain.FactorFrequency); score != 15 {
			t.Errorf("expected frequency factor 15 for count 3, got %.1f", score)
		}

		a, _ = s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(14, 0), RecentCount: 10})
		if score, _ := factorScore(a, domain.FactorFrequency); score != 20 {
			t.Errorf("expected frequency factor capped at 20, got %.1f", score)
		}
	})

	t.Run("TotalClampedAt100", func(t *testing.T) {
		// 60 night + 75 amount + 30 category + 20 frequency = 185
		a, _ := s.Score(ctx, ScoreInput{
			Amount:      500,
			Category:    "jogos",
			Timestamp:   at(2, 30),
			RecentCount: 5,
		})
		if a.Score != 100 {
			t.Errorf("expected clamped score 100, got %d", a.Score)
		}
		if !a.IsHighRisk {
			t.Error("expected high risk at score 100")
		}
	})

	t.Run("HighRiskThresholdInclusive", func(t *testing.T) {
		// 60 night + 20 frequency = 80 >= 70
		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(2, 0), RecentCount: 4})
		if !a.IsHighRisk {
			t.Errorf("expected high risk at score %d", a.Score)
		}
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		_, err := s.Score(ctx, ScoreInput{Amount: -1})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NegativeRecentCountRejected", func(t *testing.T) {
		_, err := s.Score(ctx, ScoreInput{Amount: 10, RecentCount: -1})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestExtraScorer(t *testing.T) {
	ctx := context.Background()

	t.Run("ContributesFactor", func(t *testing.T) {
		extra := func(ctx context.Context, in ScoreInput) []domain.RiskFactor {
			return []domain.RiskFactor{{
				Factor:      domain.FactorCustom,
				Description: "regra de teste",
				Score:       15,
			}}
		}
		s := newTestScorer(t, extra)

		a, err := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(14, 0)})
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if a.Score != 15 {
			t.Errorf("expected score 15 from custom factor, got %d", a.Score)
		}
		if _, ok := factorScore(a, domain.FactorCustom); !ok {
			t.Error("expected custom factor in assessment")
		}
	})

	t.Run("CannotPushPast100", func(t *testing.T) {
		extra := func(ctx context.Context, in ScoreInput) []domain.RiskFactor {
			return []domain.RiskFactor{{Factor: domain.FactorCustom, Score: 500}}
		}
		s := newTestScorer(t, extra)

		a, _ := s.Score(ctx, ScoreInput{Amount: 10, Timestamp: at(14, 0)})
		if a.Score != 100 {
			t.Errorf("expected clamped score 100, got %d", a.Score)
		}
	})
}

func TestRecommendationBreakpoints(t *testing.T) {
	tests := []struct {
		score     int
		wantLevel string
		wantDelay int
	}{
		{0, domain.LevelLow, 0},
		{29, domain.LevelLow, 0},
		{30, domain.LevelMedium, 0},
		{49, domain.LevelMedium, 0},
		{50, domain.LevelHigh, 5},
		{69, domain.LevelHigh, 5},
		{70, domain.LevelCritical, 10},
		{100, domain.LevelCritical, 10},
	}
	for _, tt := range tests {
		rec := domain.RecommendationForScore(tt.score, 5)
		if rec.Level != tt.wantLevel {
			t.Errorf("score %d: expected level %s, got %s", tt.score, tt.wantLevel, rec.Level)
		}
		if rec.DelayMinutes != tt.wantDelay {
			t.Errorf("score %d: expected delay %d, got %d", tt.score, tt.wantDelay, rec.DelayMinutes)
		}
		if rec.Message == "" {
			t.Errorf("score %d: expected a message", tt.score)
		}
	}
}

func TestNewScorerValidation(t *testing.T) {
	base := domain.GuardConfig{
		NightStart:      "00:00",
		NightEnd:        "06:00",
		AmountThreshold: 100,
		RiskThreshold:   70,
		DelayMinutes:    5,
	}

	t.Run("BadWindow", func(t *testing.T) {
		cfg := base
		cfg.NightStart = "25:00"
		if _, err := NewScorer(cfg, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NonPositiveThreshold", func(t *testing.T) {
		cfg := base
		cfg.AmountThreshold = 0
		if _, err := NewScorer(cfg, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("RiskThresholdOutOfRange", func(t *testing.T) {
		cfg := base
		cfg.RiskThreshold = 101
		if _, err := NewScorer(cfg, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NegativeDelay", func(t *testing.T) {
		cfg := base
		cfg.DelayMinutes = -1
		if _, err := NewScorer(cfg, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
