package rules

import (
	"context"
	"testing"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/guard"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	window, err := guard.NewNightWindow("00:00", "06:00")
	if err != nil {
		t.Fatalf("failed to build window: %v", err)
	}
	engine, err := NewEngine(window)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestLoadRule(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("ValidBoolRule", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "r1",
			Name:       "High amount",
			Expression: "amount > 300.0",
			Weight:     10,
			Enabled:    true,
		})
		if err != nil {
			t.Fatalf("LoadRule failed: %v", err)
		}
		if engine.RulesCount() != 1 {
			t.Errorf("expected 1 rule, got %d", engine.RulesCount())
		}
	})

	t.Run("ValidNumericRule", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "r2",
			Name:       "Amount ratio",
			Expression: "amount > 100.0 ? amount / 100.0 : 0.0",
			Weight:     5,
			Enabled:    true,
		})
		if err != nil {
			t.Fatalf("LoadRule failed: %v", err)
		}
	})

	t.Run("SyntaxError", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "broken",
			Name:       "Broken",
			Expression: "amount >>>",
			Weight:     1,
		})
		if err == nil {
			t.Error("expected compile error")
		}
	})

	t.Run("WrongOutputType", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "stringy",
			Name:       "Stringy",
			Expression: "category",
			Weight:     1,
		})
		if err == nil {
			t.Error("expected output type error for string expression")
		}
	})

	t.Run("NonPositiveWeight", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "w0",
			Name:       "Weightless",
			Expression: "amount > 0.0",
			Weight:     0,
		})
		if err == nil {
			t.Error("expected weight validation error")
		}
	})

	t.Run("UnknownVariable", func(t *testing.T) {
		err := engine.LoadRule(&domain.RiskRule{
			ID:         "unknown",
			Name:       "Unknown var",
			Expression: "balance > 100.0",
			Weight:     1,
		})
		if err == nil {
			t.Error("expected compile error for unknown variable")
		}
	})
}

func TestFactors(t *testing.T) {
	ctx := context.Background()

	t.Run("BoolRuleContributesWeight", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.LoadRule(&domain.RiskRule{
			ID:         "r1",
			Name:       "Gasto alto",
			Expression: "amount > 300.0",
			Weight:     12,
			Enabled:    true,
		})

		factors := engine.Factors(ctx, guard.ScoreInput{Amount: 400, Timestamp: at(14, 0)})
		if len(factors) != 1 {
			t.Fatalf("expected 1 factor, got %d", len(factors))
		}
		if factors[0].Factor != domain.FactorCustom {
			t.Errorf("expected custom factor tag, got %s", factors[0].Factor)
		}
		if factors[0].Score != 12 {
			t.Errorf("expected score 12, got %.1f", factors[0].Score)
		}

		if got := engine.Factors(ctx, guard.ScoreInput{Amount: 100, Timestamp: at(14, 0)}); len(got) != 0 {
			t.Errorf("expected no factors below the rule threshold, got %v", got)
		}
	})

	t.Run("NumericRuleScaledAndCapped", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.LoadRule(&domain.RiskRule{
			ID:         "ratio",
			Name:       "Ratio",
			Expression: "amount / 100.0",
			Weight:     10,
			Cap:        15,
			Enabled:    true,
		})

		factors := engine.Factors(ctx, guard.ScoreInput{Amount: 120, Timestamp: at(14, 0)})
		if len(factors) != 1 || factors[0].Score != 12 { // 1.2 * 10
			t.Fatalf("expected score 12, got %v", factors)
		}

		factors = engine.Factors(ctx, guard.ScoreInput{Amount: 900, Timestamp: at(14, 0)})
		if len(factors) != 1 || factors[0].Score != 15 { // capped
			t.Fatalf("expected score capped at 15, got %v", factors)
		}
	})

	t.Run("DefaultCapApplies", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.LoadRule(&domain.RiskRule{
			ID:         "uncapped",
			Name:       "Uncapped",
			Expression: "amount",
			Weight:     1,
			Enabled:    true,
		})

		factors := engine.Factors(ctx, guard.ScoreInput{Amount: 500, Timestamp: at(14, 0)})
		if len(factors) != 1 || factors[0].Score != domain.DefaultRuleCap {
			t.Fatalf("expected default cap %.0f, got %v", domain.DefaultRuleCap, factors)
		}
	})

	t.Run("NightAndCategoryVariables", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.LoadRule(&domain.RiskRule{
			ID:         "night-games",
			Name:       "Jogos de madrugada",
			Expression: "is_night && category == 'jogos' && hour < 4",
			Weight:     18,
			Enabled:    true,
		})

		factors := engine.Factors(ctx, guard.ScoreInput{
			Amount: 50, Category: "Jogos", Timestamp: at(2, 0),
		})
		if len(factors) != 1 || factors[0].Score != 18 {
			t.Fatalf("expected night-games rule to fire, got %v", factors)
		}

		factors = engine.Factors(ctx, guard.ScoreInput{
			Amount: 50, Category: "Jogos", Timestamp: at(14, 0),
		})
		if len(factors) != 0 {
			t.Errorf("expected no factors during the day, got %v", factors)
		}
	})

	t.Run("RecentCountVariable", func(t *testing.T) {
		engine := newTestEngine(t)
		engine.LoadRule(&domain.RiskRule{
			ID:         "burst",
			Name:       "Burst",
			Expression: "recent_count >= 4",
			Weight:     8,
			Enabled:    true,
		})

		factors := engine.Factors(ctx, guard.ScoreInput{
			Amount: 10, Timestamp: at(14, 0), RecentCount: 4,
		})
		if len(factors) != 1 {
			t.Fatalf("expected burst rule to fire, got %v", factors)
		}
	})

	t.Run("NoRulesNoFactors", func(t *testing.T) {
		engine := newTestEngine(t)
		if got := engine.Factors(ctx, guard.ScoreInput{Amount: 1000, Timestamp: at(2, 0)}); got != nil {
			t.Errorf("expected nil factors with no rules, got %v", got)
		}
	})
}

func TestReloadRules(t *testing.T) {
	engine := newTestEngine(t)

	engine.LoadRule(&domain.RiskRule{
		ID: "old", Name: "Old", Expression: "amount > 0.0", Weight: 1, Enabled: true,
	})

	err := engine.ReloadRules([]*domain.RiskRule{
		{ID: "a", Name: "A", Expression: "amount > 10.0", Weight: 1, Enabled: true},
		{ID: "b", Name: "B", Expression: "amount > 20.0", Weight: 1, Enabled: true},
		{ID: "c", Name: "C", Expression: "amount > 30.0", Weight: 1, Enabled: false},
	})
	if err != nil {
		t.Fatalf("ReloadRules failed: %v", err)
	}

	if engine.RulesCount() != 2 {
		t.Errorf("expected 2 enabled rules after reload, got %d", engine.RulesCount())
	}

	for _, r := range engine.GetLoadedRules() {
		if r.ID == "old" {
			t.Error("expected old rule to be replaced by reload")
		}
	}
}

func TestExtraScorerAdapter(t *testing.T) {
	engine := newTestEngine(t)
	engine.LoadRule(&domain.RiskRule{
		ID: "r", Name: "R", Expression: "amount > 100.0", Weight: 10, Enabled: true,
	})

	extra := engine.ExtraScorer()
	factors := extra(context.Background(), guard.ScoreInput{Amount: 200, Timestamp: at(14, 0)})
	if len(factors) != 1 {
		t.Fatalf("expected 1 factor via adapter, got %d", len(factors))
	}
}
