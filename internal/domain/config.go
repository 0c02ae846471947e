package domain

import "time"

// Config holds the complete service configuration. Read once at startup;
// components never re-read it dynamically.
type Config struct {
	Server ServerConfig `json:"server"`
	Tier   Tier         `json:"tier"`

	// Guard holds the behavioral protection thresholds.
	Guard GuardConfig `json:"guard"`

	Repository RepositoryConfig `json:"repository"`
	Cache      CacheConfig      `json:"cache"`
	EventBus   EventBusConfig   `json:"eventBus"`

	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// GuardConfig holds the night window and risk thresholds.
type GuardConfig struct {
	// NightStart/NightEnd are HH:MM clock times. The window may wrap
	// past midnight (start > end).
	NightStart string `json:"nightStart"`
	NightEnd   string `json:"nightEnd"`

	// AmountThreshold is the purchase value (currency units) above which
	// the amount factor applies.
	AmountThreshold float64 `json:"amountThreshold"`

	// RiskThreshold is the 0-100 score at or above which a transaction
	// is high risk.
	RiskThreshold int `json:"riskThreshold"`

	// DelayMinutes is the base reflection delay for high-risk purchases.
	DelayMinutes int `json:"delayMinutes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName"`
	Endpoint    string `json:"endpoint"`
}

// Tier represents the deployment tier.
type Tier string

const (
	// TierLocal runs single-user with SQLite + channels.
	TierLocal Tier = "local"

	// TierPro runs with PostgreSQL + NATS + Redis.
	TierPro Tier = "pro"
)

// DefaultUserID is the implicit user for single-user deployments.
const DefaultUserID = "local"

// DefaultConfig returns the local-tier configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Tier: TierLocal,
		Guard: GuardConfig{
			NightStart:      "00:00",
			NightEnd:        "06:00",
			AmountThreshold: 100.0,
			RiskThreshold:   70,
			DelayMinutes:    5,
		},
		Repository: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./dashboard.db",
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     5 * time.Minute,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "dashboard-financeiro",
		},
	}
}

// ProConfig returns the Pro-tier configuration.
func ProConfig() *Config {
	cfg := DefaultConfig()
	cfg.Tier = TierPro
	cfg.Repository = RepositoryConfig{
		Driver:       "postgres",
		PostgresHost: "localhost",
		PostgresPort: 5432,
		PostgresDB:   "dashboard_financeiro",
	}
	cfg.Cache = CacheConfig{
		Type:           "redis",
		RedisAddr:      "localhost:6379",
		EnableTwoPhase: true,
		LocalMaxSize:   1000,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.Tracing.Enabled = true
	return cfg
}
