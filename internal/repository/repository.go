// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveTransaction stores a transaction with user isolation.
func (r *SQLRepository) SaveTransaction(ctx context.Context, userID string, tx *domain.Transaction) error {
	if userID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		INSERT INTO transactions (
			id, user_id, amount, category, description, timestamp, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		tx.ID, userID, tx.Amount, tx.Category, tx.Description,
		tx.Timestamp, tx.CreatedAt,
	)
	return err
}

// GetTransaction retrieves a transaction by ID with user isolation.
func (r *SQLRepository) GetTransaction(ctx context.Context, userID string, txID string) (*domain.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, amount, category, description, timestamp, created_at
		FROM transactions
		WHERE user_id = ? AND id = ?
	`

	var tx domain.Transaction

	err := r.db.QueryRowContext(ctx, r.rebind(query), userID, txID).Scan(
		&tx.ID, &tx.UserID, &tx.Amount, &tx.Category, &tx.Description,
		&tx.Timestamp, &tx.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// CountRecentTransactions counts the user's transactions since the given
// instant. Feeds the frequency risk factor.
func (r *SQLRepository) CountRecentTransactions(ctx context.Context, userID string, since time.Time) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = ? AND timestamp >= ?
	`

	var n int
	if err := r.db.QueryRowContext(ctx, r.rebind(query), userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SaveGoal stores or updates a savings goal with user isolation.
func (r *SQLRepository) SaveGoal(ctx context.Context, userID string, goal *domain.Goal) error {
	if userID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now

	query := `
		INSERT INTO goals (
			id, user_id, name, target_amount, current_amount, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		goal.ID, userID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
		goal.Status, goal.CreatedAt, goal.UpdatedAt,
	)
	return err
}

// GetGoal retrieves a goal by ID with user isolation.
func (r *SQLRepository) GetGoal(ctx context.Context, userID string, goalID string) (*domain.Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, name, target_amount, current_amount, status, created_at, updated_at
		FROM goals
		WHERE user_id = ? AND id = ?
	`

	var g domain.Goal
	err := r.db.QueryRowContext(ctx, r.rebind(query), userID, goalID).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Status, &g.CreatedAt, &g.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// ListGoals retrieves all goals for a user, active first.
func (r *SQLRepository) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, name, target_amount, current_amount, status, created_at, updated_at
		FROM goals
		WHERE user_id = ?
		ORDER BY status, name
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&g.Status, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}

	return goals, rows.Err()
}

// SaveRiskRule stores a custom risk rule with user isolation.
func (r *SQLRepository) SaveRiskRule(ctx context.Context, userID string, rule *domain.RiskRule) error {
	if userID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	enabled := 0
	if rule.Enabled {
		enabled = 1
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO risk_rules (
			id, user_id, name, description, expression, weight, cap, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, user_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			expression = excluded.expression,
			weight = excluded.weight,
			cap = excluded.cap,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rule.ID, userID, rule.Name, rule.Description,
		rule.Expression, rule.Weight, rule.Cap, enabled,
		now, now,
	)
	return err
}

// ListRiskRules retrieves all enabled risk rules for a user, including
// global rules.
func (r *SQLRepository) ListRiskRules(ctx context.Context, userID string) ([]*domain.RiskRule, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, name, description, expression, weight, cap, enabled
		FROM risk_rules
		WHERE (user_id = ? OR user_id = ?) AND enabled = 1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), userID, domain.GlobalUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.RiskRule
	for rows.Next() {
		var rule domain.RiskRule
		var enabled int

		if err := rows.Scan(
			&rule.ID, &rule.UserID, &rule.Name, &rule.Description,
			&rule.Expression, &rule.Weight, &rule.Cap, &enabled,
		); err != nil {
			return nil, err
		}

		rule.Enabled = enabled == 1
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// SaveAssessment stores a gate decision with user isolation.
func (r *SQLRepository) SaveAssessment(ctx context.Context, userID string, rec *domain.AssessmentRecord) error {
	if userID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	factors, _ := json.Marshal(rec.Factors)

	isNight := 0
	if rec.IsNight {
		isNight = 1
	}
	allowed := 0
	if rec.Allowed {
		allowed = 1
	}

	query := `
		INSERT INTO assessments (
			id, user_id, tx_id, score, is_night, allowed, reason, level, factors, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rec.ID, userID, rec.TxID, rec.Score, isNight, allowed,
		rec.Reason, rec.Level, string(factors), rec.CreatedAt,
	)
	return err
}

// GetAssessment retrieves the latest gate decision for a transaction.
func (r *SQLRepository) GetAssessment(ctx context.Context, userID string, txID string) (*domain.AssessmentRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, tx_id, score, is_night, allowed, reason, level, factors, created_at
		FROM assessments
		WHERE user_id = ? AND tx_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec domain.AssessmentRecord
	var factors string
	var isNight, allowed int

	err := r.db.QueryRowContext(ctx, r.rebind(query), userID, txID).Scan(
		&rec.ID, &rec.UserID, &rec.TxID, &rec.Score, &isNight, &allowed,
		&rec.Reason, &rec.Level, &factors, &rec.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.IsNight = isNight == 1
	rec.Allowed = allowed == 1
	if factors != "" {
		json.Unmarshal([]byte(factors), &rec.Factors)
	}

	return &rec, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
