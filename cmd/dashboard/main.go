// Dashboard Financeiro - behavioral spending guard.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/api"
	"github.com/wemarques/dashboard-financeiro/internal/bus"
	"github.com/wemarques/dashboard-financeiro/internal/cache"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/guard"
	"github.com/wemarques/dashboard-financeiro/internal/intervention"
	"github.com/wemarques/dashboard-financeiro/internal/notify"
	"github.com/wemarques/dashboard-financeiro/internal/repository"
	"github.com/wemarques/dashboard-financeiro/internal/rules"
	"github.com/wemarques/dashboard-financeiro/internal/velocity"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("DASHBOARD_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting dashboard-financeiro",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("DASHBOARD_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	applyEnvOverrides(cfg)

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
		"night_window", cfg.Guard.NightStart+"-"+cfg.Guard.NightEnd,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Velocity Service
	velocitySvc := velocity.NewService(repo, cacheImpl)
	slog.Info("velocity service initialized")

	// Initialize the custom risk rule engine
	window, err := guard.NewNightWindow(cfg.Guard.NightStart, cfg.Guard.NightEnd)
	if err != nil {
		slog.Error("invalid night window", "error", err)
		os.Exit(1)
	}
	ruleEngine, err := rules.NewEngine(window)
	if err != nil {
		slog.Error("failed to initialize rule engine", "error", err)
		os.Exit(1)
	}

	// Load rules from database (no hardcoded defaults - configure via API)
	if err := loadRulesFromDatabase(ctx, repo, ruleEngine); err != nil {
		slog.Error("failed to load rules", "error", err)
		os.Exit(1)
	}
	slog.Info("rule engine initialized", "rules_count", ruleEngine.RulesCount())

	// Initialize the risk scorer and transaction gate
	scorer, err := guard.NewScorer(cfg.Guard, ruleEngine.ExtraScorer())
	if err != nil {
		slog.Error("invalid guard configuration", "error", err)
		os.Exit(1)
	}
	gate := guard.NewGuard(scorer, busImpl)
	slog.Info("transaction gate initialized",
		"amount_threshold", cfg.Guard.AmountThreshold,
		"risk_threshold", cfg.Guard.RiskThreshold,
	)

	// Initialize the intervention composer and delay ledger
	composer := intervention.NewEngine(cfg.Guard.DelayMinutes,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	ledger := intervention.NewDelayLedger()
	slog.Info("intervention engine initialized", "base_delay_minutes", cfg.Guard.DelayMinutes)

	// Initialize the notifier: console + in-app feed, optional file sink
	notifier := notify.NewNotifier(busImpl, os.Getenv("DASHBOARD_NOTIFY_FILE"))
	userIDs := []string{}
	if envUsers := os.Getenv("DASHBOARD_USERS"); envUsers != "" {
		for _, u := range strings.Split(envUsers, ",") {
			if u = strings.TrimSpace(u); u != "" {
				userIDs = append(userIDs, u)
			}
		}
	}
	if err := notifier.Start(ctx, userIDs); err != nil {
		slog.Error("failed to start notifier", "error", err)
		os.Exit(1)
	}
	defer notifier.Stop()
	slog.Info("notifier started", "user_count", len(userIDs))

	// Initialize Server
	srv := api.NewServer(cfg.Server, api.Deps{
		Repo:     repo,
		Cache:    cacheImpl,
		Bus:      busImpl,
		Gate:     gate,
		Composer: composer,
		Ledger:   ledger,
		Velocity: velocitySvc,
		Rules:    ruleEngine,
		Notifier: notifier,
		Version:  Version,
	})

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("dashboard-financeiro is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("dashboard-financeiro shutdown complete")
}

// applyEnvOverrides reads GUARD_* variables once at startup.
func applyEnvOverrides(cfg *domain.Config) {
	if v := os.Getenv("GUARD_NIGHT_START"); v != "" {
		cfg.Guard.NightStart = v
	}
	if v := os.Getenv("GUARD_NIGHT_END"); v != "" {
		cfg.Guard.NightEnd = v
	}
	if v := os.Getenv("GUARD_AMOUNT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Guard.AmountThreshold = f
		} else {
			slog.Warn("ignoring invalid GUARD_AMOUNT_THRESHOLD", "value", v)
		}
	}
	if v := os.Getenv("GUARD_RISK_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Guard.RiskThreshold = n
		} else {
			slog.Warn("ignoring invalid GUARD_RISK_THRESHOLD", "value", v)
		}
	}
	if v := os.Getenv("GUARD_DELAY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Guard.DelayMinutes = n
		} else {
			slog.Warn("ignoring invalid GUARD_DELAY_MINUTES", "value", v)
		}
	}
	if v := os.Getenv("DASHBOARD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DASHBOARD_SQLITE_PATH"); v != "" {
		cfg.Repository.SQLitePath = v
	}
}

// loadRulesFromDatabase loads custom risk rules into the engine.
// All rules are configured via POST /rules - no hardcoded defaults.
func loadRulesFromDatabase(ctx context.Context, repo domain.Repository, engine *rules.Engine) error {
	dbRules, err := repo.ListRiskRules(ctx, domain.GlobalUserID)
	if err != nil {
		slog.Warn("failed to list rules from database", "error", err)
		return nil // Start with empty rules - they can be added via API
	}

	if len(dbRules) > 0 {
		slog.Info("loading rules from database", "count", len(dbRules))
		return engine.LoadRules(dbRules)
	}

	slog.Info("no rules in database - configure via POST /rules API")
	return nil
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║        💰 DASHBOARD FINANCEIRO            ║")
	fmt.Println("  ║       Behavioral Spending Guard           ║")
	fmt.Println("  ║     Pense antes de gastar à noite.        ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /transactions/check   - Gate a transaction")
	fmt.Println("    GET  /transactions/{id}    - Get transaction by ID")
	fmt.Println("    GET  /assessments/{txId}   - Get gate decision")
	fmt.Println("    POST /interventions        - Compose an intervention")
	fmt.Println("    GET  /interventions/stats  - Intervention counts")
	fmt.Println("    GET  /protection/status    - Protection state")
	fmt.Println("    POST /protection/enable    - Enable protection")
	fmt.Println("    POST /protection/disable   - Disable protection")
	fmt.Println("    POST /protection/bypass    - Temporary bypass")
	fmt.Println("    POST /delays               - Create a reflection hold")
	fmt.Println("    GET  /delays/{txId}        - Query a hold")
	fmt.Println("    GET  /goals                - List savings goals")
	fmt.Println("    POST /goals                - Create a savings goal")
	fmt.Println("    PUT  /goals/{id}/progress  - Add to a goal")
	fmt.Println("    GET  /rules                - List custom risk rules")
	fmt.Println("    POST /rules                - Create a custom risk rule")
	fmt.Println("    POST /rules/reload         - Hot-reload rules")
	fmt.Println("    GET  /notifications        - In-app notification feed")
	fmt.Println("    GET  /health               - Health check")
	fmt.Println()
}
