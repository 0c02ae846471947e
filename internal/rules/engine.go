// Package rules provides the CEL-Go engine for operator-defined risk
// rules. Each enabled rule contributes one bounded extra factor on top
// of the guard's fixed scoring.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/guard"
)

// Engine compiles and evaluates custom risk rules.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	window        guard.NightWindow
	compiledRules map[string]*CompiledRule
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.RiskRule
	Program cel.Program
}

// NewEngine creates a rule engine with the transaction variables in
// scope. The night window feeds the is_night variable.
func NewEngine(window guard.NightWindow) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("category", cel.StringType),
		cel.Variable("hour", cel.IntType),
		cel.Variable("is_night", cel.BoolType),
		cel.Variable("recent_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		window:        window,
		compiledRules: make(map[string]*CompiledRule),
	}, nil
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(cfg *domain.RiskRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(cfg)
	if err != nil {
		return err
	}
	e.compiledRules[cfg.ID] = compiled
	return nil
}

// LoadRules compiles and loads all enabled rules.
func (e *Engine) LoadRules(configs []*domain.RiskRule) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := e.LoadRule(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReloadRules replaces all loaded rules with the given set.
func (e *Engine) ReloadRules(configs []*domain.RiskRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make(map[string]*CompiledRule)
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		compiled, err := e.compileRule(cfg)
		if err != nil {
			return err
		}
		newRules[cfg.ID] = compiled
	}
	e.compiledRules = newRules
	return nil
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

// GetLoadedRules returns the currently loaded rule configurations.
func (e *Engine) GetLoadedRules() []*domain.RiskRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.RiskRule, 0, len(e.compiledRules))
	for _, compiled := range e.compiledRules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// Factors evaluates all loaded rules against the transaction and
// returns one bounded risk factor per triggered rule. Evaluation errors
// are logged and skipped; a broken rule must not block gating.
func (e *Engine) Factors(ctx context.Context, in guard.ScoreInput) []domain.RiskFactor {
	e.mu.RLock()
	rules := make([]*CompiledRule, 0, len(e.compiledRules))
	for _, rule := range e.compiledRules {
		rules = append(rules, rule)
	}
	e.mu.RUnlock()

	if len(rules) == 0 {
		return nil
	}

	ts := in.Timestamp
	activation := map[string]any{
		"amount":       in.Amount,
		"category":     strings.ToLower(in.Category),
		"hour":         int64(ts.Hour()),
		"is_night":     e.window.Contains(ts),
		"recent_count": int64(in.RecentCount),
	}

	var factors []domain.RiskFactor
	for _, rule := range rules {
		out, _, err := rule.Program.Eval(activation)
		if err != nil {
			slog.Error("risk rule evaluation failed",
				"rule_id", rule.Config.ID,
				"error", err,
			)
			continue
		}

		value := toValue(out)
		if value <= 0 {
			continue
		}

		limit := rule.Config.Cap
		if limit <= 0 {
			limit = domain.DefaultRuleCap
		}
		score := math.Min(value*rule.Config.Weight, limit)

		factors = append(factors, domain.RiskFactor{
			Factor:      domain.FactorCustom,
			Description: fmt.Sprintf("Regra '%s' acionada", rule.Config.Name),
			Score:       score,
		})
	}

	return factors
}

// ExtraScorer adapts the engine to the guard's extra factor hook.
func (e *Engine) ExtraScorer() guard.ExtraScorer {
	return e.Factors
}

// toValue converts a CEL result to a numeric contribution.
func toValue(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}

func (e *Engine) compileRule(cfg *domain.RiskRule) (*CompiledRule, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: rule config is required", domain.ErrInvalidInput)
	}
	if cfg.Weight <= 0 {
		return nil, fmt.Errorf("%w: rule %s weight must be positive", domain.ErrInvalidInput, cfg.ID)
	}

	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", cfg.ID, issues.Err())
	}

	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DoubleType && outputType != cel.IntType {
		return nil, fmt.Errorf("rule %s: expression must return bool, int, or double, got %s",
			cfg.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{Config: cfg, Program: program}, nil
}
