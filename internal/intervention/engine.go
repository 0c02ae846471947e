// Package intervention composes graded behavioral responses to risky
// transactions and tracks per-transaction reflection holds.
package intervention

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// historyCap bounds the in-memory intervention history.
const historyCap = 10000

// levelForScore maps a risk score to an intervention level. The 30/50/75
// breakpoints differ from the recommendation's 30/50/70 scale on
// purpose; the two gradings are independent.
func levelForScore(score int) domain.InterventionLevel {
	switch {
	case score < 30:
		return domain.InterventionGentle
	case score < 50:
		return domain.InterventionModerate
	case score < 75:
		return domain.InterventionStrong
	default:
		return domain.InterventionCritical
	}
}

// historyEntry pairs a composed intervention with its transaction.
type historyEntry struct {
	Transaction  *domain.Transaction
	Intervention *domain.Intervention
	CreatedAt    time.Time
}

// Engine builds interventions. Safe for concurrent use; the history is
// append-only under the mutex.
type Engine struct {
	baseDelay int

	mu      sync.Mutex
	rng     *rand.Rand
	history []historyEntry

	now func() time.Time
}

// NewEngine creates an intervention engine. rng may be nil; a
// time-seeded source is used then. Tests pass a fixed seed to make
// structural assertions deterministic.
func NewEngine(baseDelayMinutes int, rng *rand.Rand) *Engine {
	if baseDelayMinutes <= 0 {
		baseDelayMinutes = 5
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		baseDelay: baseDelayMinutes,
		rng:       rng,
		now:       time.Now,
	}
}

// SetClock overrides the engine's clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Compose builds a leveled, multi-component intervention for the
// transaction. profile and goals are optional; their absence only
// narrows the composed components.
func (e *Engine) Compose(tx *domain.Transaction, riskScore int, profile *domain.BehavioralProfile, goals []*domain.Goal) *domain.Intervention {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	amount := 0.0
	category := "outros"
	if tx != nil {
		amount = tx.Amount
		if tx.Category != "" {
			category = strings.ToLower(tx.Category)
		}
	}
	isNight := now.Hour() >= 0 && now.Hour() <= 6

	level := levelForScore(riskScore)

	iv := &domain.Intervention{
		Level:     level,
		RiskScore: riskScore,
		CreatedAt: now,
	}

	// 1. Reflective questions, always present.
	iv.Components = append(iv.Components, domain.InterventionComponent{
		Type:      domain.ComponentQuestion,
		Questions: e.pickQuestions(category, amount, isNight, now),
	})

	// 2. Impact visualization for meaningful amounts.
	if amount >= 50 {
		iv.Components = append(iv.Components, domain.InterventionComponent{
			Type:   domain.ComponentVisualization,
			Impact: buildImpact(amount, goals),
		})
	}

	// 3. Goal comparison.
	if comparison := compareWithGoals(amount, goals); comparison != nil {
		iv.Components = append(iv.Components, domain.InterventionComponent{
			Type:       domain.ComponentComparison,
			Comparison: comparison,
		})
	}

	// 4. Alternatives for known categories.
	if options, ok := alternatives[category]; ok {
		iv.Components = append(iv.Components, domain.InterventionComponent{
			Type:         domain.ComponentAlternative,
			Alternatives: e.sample(options, 2),
		})
	}

	// 5. Mandatory delay for strong and critical levels.
	if level == domain.InterventionStrong || level == domain.InterventionCritical {
		minutes := e.baseDelay
		if level == domain.InterventionCritical {
			minutes *= 2
		}
		iv.Components = append(iv.Components, domain.InterventionComponent{
			Type: domain.ComponentDelay,
			Delay: &domain.DelayContent{
				Minutes:   minutes,
				ExpiresAt: now.Add(time.Duration(minutes) * time.Minute),
				Message:   fmt.Sprintf("Aguarde %d minutos antes de confirmar", minutes),
			},
		})
	}

	// 6. Block for critical level.
	if level == domain.InterventionCritical {
		iv.Components = append(iv.Components, domain.InterventionComponent{
			Type: domain.ComponentBlock,
			Block: &domain.BlockContent{
				Reason:           blockReason(riskScore, isNight, amount),
				CanOverride:      true,
				OverrideRequires: "confirmation_code",
			},
		})
	}

	iv.MainMessage = e.mainMessage(level, isNight)
	iv.Actions = suggestedActions[level]

	e.record(tx, iv, now)

	return iv
}

// Stats aggregates the intervention history by level.
func (e *Engine) Stats() domain.InterventionStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := domain.InterventionStats{Total: len(e.history)}
	if stats.Total == 0 {
		return stats
	}

	stats.ByLevel = make(map[string]int)
	for _, entry := range e.history {
		stats.ByLevel[string(entry.Intervention.Level)]++
	}
	return stats
}

// pickQuestions selects up to 4 reflective questions: up to 2 from the
// category bank, one night question with the hour substituted, one
// high-value question for amounts of 200 or more, falling back to 2
// default questions when nothing matched.
func (e *Engine) pickQuestions(category string, amount float64, isNight bool, now time.Time) []string {
	var questions []string

	if bank, ok := reflectiveQuestions[category]; ok {
		questions = append(questions, e.sample(bank, 2)...)
	}

	if isNight {
		q := reflectiveQuestions["noturno"][e.rng.Intn(len(reflectiveQuestions["noturno"]))]
		q = strings.ReplaceAll(q, "Xh", fmt.Sprintf("%dh", now.Hour()))
		questions = append(questions, q)
	}

	if amount >= 200 {
		questions = append(questions, e.sample(reflectiveQuestions["alto_valor"], 1)...)
	}

	if len(questions) == 0 {
		questions = e.sample(reflectiveQuestions["default"], 2)
	}

	if len(questions) > 4 {
		questions = questions[:4]
	}
	return questions
}

// sample picks up to n distinct items from bank.
func (e *Engine) sample(bank []string, n int) []string {
	if n > len(bank) {
		n = len(bank)
	}
	perm := e.rng.Perm(len(bank))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, bank[idx])
	}
	return out
}

// buildImpact derives impact statements from the amount: days of food
// budget (30/day), months of streaming (45/month), 5-year compounded
// value at 10% a year, work hours (15/hour), and share of the first
// active goal if present.
func buildImpact(amount float64, goals []*domain.Goal) map[string]string {
	impact := map[string]string{
		"daily_food": fmt.Sprintf("Com R$ %.2f, você poderia comer por %.1f dias",
			amount, amount/30),
		"subscriptions": fmt.Sprintf("Equivale a %.1f meses de streaming", amount/45),
		"investment": fmt.Sprintf("Investido, em 5 anos seria R$ %.2f",
			amount*math.Pow(1.10, 5)),
		"work_hours": fmt.Sprintf("Você trabalha %.1f horas para ganhar isso", amount/15),
	}

	for _, g := range goals {
		if g.Status != domain.GoalActive || g.TargetAmount <= 0 {
			continue
		}
		percent := amount / g.TargetAmount * 100
		impact["goal_impact"] = fmt.Sprintf("Este valor é %.1f%% da sua meta '%s'",
			percent, g.Name)
		break
	}

	return impact
}

// compareWithGoals returns per-goal purchase impact, or nil when no
// active goal has a positive remaining amount.
func compareWithGoals(amount float64, goals []*domain.Goal) *domain.GoalComparison {
	var comparisons []domain.GoalImpact
	active := 0

	for _, g := range goals {
		if g.Status != domain.GoalActive {
			continue
		}
		active++
		remaining := g.Remaining()
		if remaining <= 0 {
			continue
		}
		percent := amount / remaining * 100
		comparisons = append(comparisons, domain.GoalImpact{
			GoalName:            g.Name,
			Remaining:           remaining,
			ThisPurchasePercent: math.Round(percent*10) / 10,
			Message: fmt.Sprintf("Este gasto representa %.1f%% do que falta para '%s'",
				percent, g.Name),
		})
	}

	if len(comparisons) == 0 {
		return nil
	}

	return &domain.GoalComparison{
		Comparisons: comparisons,
		Summary:     fmt.Sprintf("Você tem %d meta(s) ativa(s)", active),
	}
}

// blockReason synthesizes the block explanation from the triggers that
// actually applied.
func blockReason(riskScore int, isNight bool, amount float64) string {
	var reasons []string

	if isNight {
		reasons = append(reasons, "transação em horário de alto risco (madrugada)")
	}
	if riskScore >= 80 {
		reasons = append(reasons, "padrão de compra por impulso detectado")
	}
	if amount >= 500 {
		reasons = append(reasons, "valor significativo requer reflexão")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "múltiplos fatores de risco identificados")
	}

	return "Bloqueio ativado devido a: " + strings.Join(reasons, ", ")
}

// mainMessage picks one of the level's two templates and appends the
// night suffix when applicable.
func (e *Engine) mainMessage(level domain.InterventionLevel, isNight bool) string {
	templates := mainMessages[level]
	msg := templates[e.rng.Intn(len(templates))]
	if isNight {
		msg += " [Modo Noturno Ativo]"
	}
	return msg
}

// record appends to the capped history.
func (e *Engine) record(tx *domain.Transaction, iv *domain.Intervention, now time.Time) {
	e.history = append(e.history, historyEntry{
		Transaction:  tx,
		Intervention: iv,
		CreatedAt:    now,
	})
	if len(e.history) > historyCap {
		// Drop the oldest half rather than shifting one-by-one.
		e.history = append([]historyEntry(nil), e.history[len(e.history)-historyCap/2:]...)
		slog.Debug("intervention history trimmed", "kept", len(e.history))
	}
}
