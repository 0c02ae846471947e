package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence. All methods
// require userID for per-user isolation.
type Repository interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, userID string, tx *Transaction) error
	GetTransaction(ctx context.Context, userID string, txID string) (*Transaction, error)
	CountRecentTransactions(ctx context.Context, userID string, since time.Time) (int, error)

	// Goal operations
	SaveGoal(ctx context.Context, userID string, goal *Goal) error
	GetGoal(ctx context.Context, userID string, goalID string) (*Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*Goal, error)

	// Custom risk rule operations
	SaveRiskRule(ctx context.Context, userID string, rule *RiskRule) error
	ListRiskRules(ctx context.Context, userID string) ([]*RiskRule, error)

	// Gate decisions
	SaveAssessment(ctx context.Context, userID string, rec *AssessmentRecord) error
	GetAssessment(ctx context.Context, userID string, txID string) (*AssessmentRecord, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
