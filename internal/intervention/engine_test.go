package intervention

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(5, rand.New(rand.NewSource(42)))
}

func daytime() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	}
}

func night() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)
	}
}

func tx(amount float64, category string) *domain.Transaction {
	return &domain.Transaction{
		ID:       "tx-001",
		UserID:   "user-001",
		Amount:   amount,
		Category: category,
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  domain.InterventionLevel
	}{
		{0, domain.InterventionGentle},
		{29, domain.InterventionGentle},
		{30, domain.InterventionModerate},
		{49, domain.InterventionModerate},
		{50, domain.InterventionStrong},
		{74, domain.InterventionStrong},
		{75, domain.InterventionCritical},
		{100, domain.InterventionCritical},
	}
	for _, tt := range tests {
		if got := levelForScore(tt.score); got != tt.want {
			t.Errorf("levelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCompose(t *testing.T) {
	t.Run("QuestionsAlwaysPresent", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(tx(20, "mercado"), 10, nil, nil)
		q := iv.Component(domain.ComponentQuestion)
		if q == nil || len(q.Questions) == 0 {
			t.Fatal("expected reflective questions in every intervention")
		}
		if iv.Level != domain.InterventionGentle {
			t.Errorf("expected gentle level, got %s", iv.Level)
		}
		if iv.MainMessage == "" {
			t.Error("expected main message")
		}
		if len(iv.Actions) == 0 {
			t.Error("expected suggested actions")
		}
	})

	t.Run("VisualizationForMeaningfulAmounts", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(tx(49.99, ""), 40, nil, nil)
		if iv.Component(domain.ComponentVisualization) != nil {
			t.Error("expected no visualization below R$50")
		}

		iv = e.Compose(tx(50, ""), 40, nil, nil)
		viz := iv.Component(domain.ComponentVisualization)
		if viz == nil {
			t.Fatal("expected visualization at R$50")
		}
		if viz.Impact["daily_food"] == "" || viz.Impact["investment"] == "" {
			t.Errorf("expected impact statements, got %v", viz.Impact)
		}
	})

	t.Run("GoalComparison", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		goals := []*domain.Goal{
			{Name: "Viagem", TargetAmount: 5000, CurrentAmount: 4000, Status: domain.GoalActive},
			{Name: "Concluída", TargetAmount: 100, CurrentAmount: 100, Status: domain.GoalActive},
			{Name: "Cancelada", TargetAmount: 1000, Status: domain.GoalCancelled},
		}

		iv := e.Compose(tx(100, ""), 40, nil, goals)
		cmp := iv.Component(domain.ComponentComparison)
		if cmp == nil {
			t.Fatal("expected goal comparison")
		}
		if len(cmp.Comparison.Comparisons) != 1 {
			t.Fatalf("expected 1 comparison (active with remaining), got %d",
				len(cmp.Comparison.Comparisons))
		}
		impact := cmp.Comparison.Comparisons[0]
		if impact.GoalName != "Viagem" || impact.ThisPurchasePercent != 10.0 {
			t.Errorf("unexpected goal impact: %+v", impact)
		}
	})

	t.Run("NoGoalsNoComparison", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(tx(100, ""), 40, nil, nil)
		if iv.Component(domain.ComponentComparison) != nil {
			t.Error("expected no comparison without goals")
		}
	})

	t.Run("AlternativesForKnownCategory", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(tx(80, "delivery"), 40, nil, nil)
		alt := iv.Component(domain.ComponentAlternative)
		if alt == nil || len(alt.Alternatives) == 0 {
			t.Fatal("expected alternatives for delivery")
		}

		iv = e.Compose(tx(80, "categoria-inexistente"), 40, nil, nil)
		if iv.Component(domain.ComponentAlternative) != nil {
			t.Error("expected no alternatives for unknown category")
		}
	})

	t.Run("DelayOnlyAtStrongAndAbove", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(tx(100, ""), 49, nil, nil)
		if iv.Component(domain.ComponentDelay) != nil {
			t.Error("expected no delay at moderate level")
		}

		iv = e.Compose(tx(100, ""), 60, nil, nil)
		delay := iv.Component(domain.ComponentDelay)
		if delay == nil {
			t.Fatal("expected delay at strong level")
		}
		if delay.Delay.Minutes != 5 {
			t.Errorf("expected base delay 5, got %d", delay.Delay.Minutes)
		}
		if iv.Component(domain.ComponentBlock) != nil {
			t.Error("expected no block at strong level")
		}
	})

	t.Run("CriticalDoublesDelayAndBlocks", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(night())

		iv := e.Compose(tx(600, "jogos"), 85, nil, nil)

		delay := iv.Component(domain.ComponentDelay)
		if delay == nil || delay.Delay.Minutes != 10 {
			t.Fatalf("expected doubled delay 10 at critical level, got %+v", delay)
		}

		block := iv.Component(domain.ComponentBlock)
		if block == nil {
			t.Fatal("expected block at critical level")
		}
		if !block.Block.CanOverride || block.Block.OverrideRequires != "confirmation_code" {
			t.Errorf("unexpected block content: %+v", block.Block)
		}
		for _, frag := range []string{"madrugada", "impulso", "valor significativo"} {
			if !strings.Contains(block.Block.Reason, frag) {
				t.Errorf("expected block reason to mention %q, got %q", frag, block.Block.Reason)
			}
		}
		if !strings.Contains(iv.MainMessage, "[Modo Noturno Ativo]") {
			t.Errorf("expected night suffix in main message, got %q", iv.MainMessage)
		}
	})

	t.Run("NilTransaction", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(daytime())

		iv := e.Compose(nil, 40, nil, nil)
		if iv == nil || iv.Component(domain.ComponentQuestion) == nil {
			t.Fatal("expected intervention even without a transaction")
		}
	})

	t.Run("AtMostFourQuestions", func(t *testing.T) {
		e := newTestEngine()
		e.SetClock(night())

		// Category bank + night + high-value could exceed 4
		iv := e.Compose(tx(300, "compras"), 85, nil, nil)
		q := iv.Component(domain.ComponentQuestion)
		if q == nil || len(q.Questions) > 4 {
			t.Errorf("expected at most 4 questions, got %v", q)
		}
	})
}

func TestStats(t *testing.T) {
	e := newTestEngine()
	e.SetClock(daytime())

	if s := e.Stats(); s.Total != 0 || s.ByLevel != nil {
		t.Errorf("expected empty stats, got %+v", s)
	}

	e.Compose(tx(10, ""), 10, nil, nil)
	e.Compose(tx(10, ""), 40, nil, nil)
	e.Compose(tx(10, ""), 40, nil, nil)
	e.Compose(tx(10, ""), 90, nil, nil)

	s := e.Stats()
	if s.Total != 4 {
		t.Errorf("expected 4 interventions, got %d", s.Total)
	}
	if s.ByLevel["gentle"] != 1 || s.ByLevel["moderate"] != 2 || s.ByLevel["critical"] != 1 {
		t.Errorf("unexpected level counts: %v", s.ByLevel)
	}
}

func TestComposeDeterministicWithSeed(t *testing.T) {
	a := NewEngine(5, rand.New(rand.NewSource(7)))
	b := NewEngine(5, rand.New(rand.NewSource(7)))
	a.SetClock(daytime())
	b.SetClock(daytime())

	ivA := a.Compose(tx(80, "delivery"), 40, nil, nil)
	ivB := b.Compose(tx(80, "delivery"), 40, nil, nil)

	qA := ivA.Component(domain.ComponentQuestion)
	qB := ivB.Component(domain.ComponentQuestion)
	if strings.Join(qA.Questions, "|") != strings.Join(qB.Questions, "|") {
		t.Errorf("expected identical questions for identical seeds:\n%v\n%v",
			qA.Questions, qB.Questions)
	}
}
