package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/guard"
	"github.com/wemarques/dashboard-financeiro/internal/intervention"
	"github.com/wemarques/dashboard-financeiro/internal/notify"
	"github.com/wemarques/dashboard-financeiro/internal/repository"
	"github.com/wemarques/dashboard-financeiro/internal/rules"
	"github.com/wemarques/dashboard-financeiro/internal/velocity"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	bus      domain.EventBus
	gate     *guard.Guard
	composer *intervention.Engine
	ledger   *intervention.DelayLedger
	velocity *velocity.Service
	rules    *rules.Engine
	notifier *notify.Notifier
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		repo:     deps.Repo,
		cache:    deps.Cache,
		bus:      deps.Bus,
		gate:     deps.Gate,
		composer: deps.Composer,
		ledger:   deps.Ledger,
		velocity: deps.Velocity,
		rules:    deps.Rules,
		notifier: deps.Notifier,
		version:  deps.Version,
	}
}

// CheckResponse is the response for POST /transactions/check.
type CheckResponse struct {
	TransactionID string                 `json:"transactionId"`
	Allowed       bool                   `json:"allowed"`
	Reason        string                 `json:"reason"`
	BypassActive  bool                   `json:"bypassActive,omitempty"`
	Assessment    *domain.RiskAssessment `json:"assessment,omitempty"`
	Intervention  *domain.Intervention   `json:"intervention,omitempty"`
	Delay         *domain.DelayRecord    `json:"delay,omitempty"`
	Metadata      struct {
		TraceID string `json:"traceId"`
		TotalMs int64  `json:"totalMs"`
		Version string `json:"version"`
	} `json:"metadata"`
}

// CheckTransaction handles POST /transactions/check: persists the
// transaction, runs the gate, and composes an intervention for anything
// past the gentle tier.
func (h *Handler) CheckTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	userID := GetUserID(ctx)
	traceID := GetTraceID(ctx)

	var req domain.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Amount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "amount must not be negative",
		})
		return
	}

	ts := time.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "timestamp must be RFC 3339",
			})
			return
		}
		ts = parsed
	}

	tx := req.ToTransaction(userID, ts)
	tx.ID = uuid.New().String()

	// Persist and bump velocity; gating proceeds even if either fails.
	if h.repo != nil {
		if err := h.repo.SaveTransaction(ctx, userID, tx); err != nil {
			slog.Error("failed to save transaction", "tx_id", tx.ID, "error", err)
		}
	}
	if h.velocity != nil {
		h.velocity.Record(ctx, userID)
	}

	recentCount := 0
	if req.RecentCount != nil {
		recentCount = *req.RecentCount
	} else if h.velocity != nil {
		if n, err := h.velocity.RecentCount(ctx, userID); err == nil {
			recentCount = n
		}
	}

	result, err := h.gate.Evaluate(ctx, guard.ScoreInput{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Timestamp:   ts,
		RecentCount: recentCount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("gate evaluation failed", "tx_id", tx.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "evaluation failed",
		})
		return
	}

	resp := CheckResponse{
		TransactionID: tx.ID,
		Allowed:       result.Allowed,
		Reason:        result.Reason,
		BypassActive:  result.BypassActive,
		Assessment:    result.Assessment,
	}

	// Compose an intervention for anything past the gentle tier, and for
	// every denial.
	if result.Assessment != nil && (result.Assessment.Score >= 30 || !result.Allowed) {
		goals := h.listGoals(ctx, userID)
		iv := h.composer.Compose(tx, result.Assessment.Score, nil, goals)
		resp.Intervention = iv

		if delay := iv.Component(domain.ComponentDelay); delay != nil && h.ledger != nil {
			rec, err := h.ledger.SetDelay(userID, tx.ID, delay.Delay.Minutes)
			if err != nil {
				slog.Error("failed to set delay", "tx_id", tx.ID, "error", err)
			} else {
				resp.Delay = &rec
			}
		}
	}

	h.saveAssessment(r, userID, tx.ID, result)
	h.publishDecision(r, userID, tx, result)

	resp.Metadata.TraceID = traceID
	resp.Metadata.TotalMs = time.Since(start).Milliseconds()
	resp.Metadata.Version = h.version

	writeJSON(w, http.StatusOK, resp)
}

// listGoals fetches the user's goals for intervention composition.
// Failure narrows the intervention instead of blocking the check.
func (h *Handler) listGoals(ctx context.Context, userID string) []*domain.Goal {
	if h.repo == nil {
		return nil
	}
	goals, err := h.repo.ListGoals(ctx, userID)
	if err != nil {
		slog.Error("failed to list goals", "user_id", userID, "error", err)
		return nil
	}
	return goals
}

// saveAssessment persists the gate decision.
func (h *Handler) saveAssessment(r *http.Request, userID, txID string, result *domain.GateResult) {
	if h.repo == nil {
		return
	}

	rec := &domain.AssessmentRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		TxID:      txID,
		Allowed:   result.Allowed,
		Reason:    result.Reason,
		CreatedAt: time.Now().UTC(),
	}
	if result.Assessment != nil {
		rec.Score = result.Assessment.Score
		rec.IsNight = result.Assessment.IsNight
		rec.Level = result.Assessment.Recommendation.Level
		rec.Factors = result.Assessment.Factors
	}

	if err := h.repo.SaveAssessment(r.Context(), userID, rec); err != nil {
		slog.Error("failed to save assessment", "tx_id", txID, "error", err)
	}
}

// publishDecision emits the decision and, on denial, the blocked event.
func (h *Handler) publishDecision(r *http.Request, userID string, tx *domain.Transaction, result *domain.GateResult) {
	if h.bus == nil {
		return
	}
	ctx := r.Context()

	payload, _ := json.Marshal(result)
	if err := h.bus.Publish(ctx, userID, domain.TopicDecision, payload); err != nil {
		slog.Error("failed to publish decision", "tx_id", tx.ID, "error", err)
	}

	if !result.Allowed {
		blocked, _ := json.Marshal(domain.BlockedEvent{
			UserID: userID,
			TxID:   tx.ID,
			Amount: tx.Amount,
			Reason: result.Reason,
		})
		if err := h.bus.Publish(ctx, userID, domain.TopicBlocked, blocked); err != nil {
			slog.Error("failed to publish blocked event", "tx_id", tx.ID, "error", err)
		}
	}
}

// GetTransaction retrieves a transaction by ID.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)
	txID := chi.URLParam(r, "id")

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	tx, err := h.repo.GetTransaction(ctx, userID, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "transaction not found",
			})
			return
		}
		slog.Error("failed to get transaction", "id", txID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get transaction",
		})
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// GetAssessment retrieves the latest gate decision for a transaction.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)
	txID := chi.URLParam(r, "txId")

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	rec, err := h.repo.GetAssessment(ctx, userID, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "assessment not found",
			})
			return
		}
		slog.Error("failed to get assessment", "tx_id", txID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get assessment",
		})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ComposeRequest is the request body for POST /interventions.
type ComposeRequest struct {
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category,omitempty"`
	Description   string  `json:"description,omitempty"`
	RiskScore     int     `json:"riskScore"`
}

// ComposeIntervention handles POST /interventions: composes an
// intervention for an explicit risk score without gating.
func (h *Handler) ComposeIntervention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)

	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.RiskScore < 0 || req.RiskScore > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "riskScore must be between 0 and 100",
		})
		return
	}
	if req.Amount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "amount must not be negative",
		})
		return
	}

	tx := &domain.Transaction{
		ID:          req.TransactionID,
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Timestamp:   time.Now(),
	}

	iv := h.composer.Compose(tx, req.RiskScore, nil, h.listGoals(ctx, userID))
	writeJSON(w, http.StatusOK, iv)
}

// InterventionStats returns aggregate intervention counts.
func (h *Handler) InterventionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.composer.Stats())
}

// ProtectionStatus returns the gate's current state.
func (h *Handler) ProtectionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gate.Status())
}

// EnableProtection turns the gate on.
func (h *Handler) EnableProtection(w http.ResponseWriter, r *http.Request) {
	h.gate.EnableProtection()
	writeJSON(w, http.StatusOK, h.gate.Status())
}

// DisableProtection turns the gate off.
func (h *Handler) DisableProtection(w http.ResponseWriter, r *http.Request) {
	h.gate.DisableProtection()
	writeJSON(w, http.StatusOK, h.gate.Status())
}

// BypassRequest is the request body for POST /protection/bypass.
type BypassRequest struct {
	Minutes int `json:"minutes"`
}

// BypassProtection suppresses the gate for a limited window.
func (h *Handler) BypassProtection(w http.ResponseWriter, r *http.Request) {
	var req BypassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	until, err := h.gate.TemporaryBypass(req.Minutes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bypassUntil": until,
		"status":      h.gate.Status(),
	})
}

// SetDelayRequest is the request body for POST /delays.
type SetDelayRequest struct {
	TransactionID string `json:"transactionId"`
	Minutes       int    `json:"minutes"`
}

// SetDelay creates or replaces a reflection hold for a transaction.
func (h *Handler) SetDelay(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req SetDelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	rec, err := h.ledger.SetDelay(userID, req.TransactionID, req.Minutes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// DelayStatus reports whether a hold still gates confirmation.
func (h *Handler) DelayStatus(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	txID := chi.URLParam(r, "txId")

	writeJSON(w, http.StatusOK, h.ledger.CheckDelayStatus(userID, txID))
}

// ListGoals returns all of the user's goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	goals, err := h.repo.ListGoals(ctx, userID)
	if err != nil {
		slog.Error("failed to list goals", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list goals",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goals": goals,
		"count": len(goals),
	})
}

// CreateGoalRequest is the request body for POST /goals.
type CreateGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount,omitempty"`
}

// CreateGoal creates a savings goal.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Name == "" || req.TargetAmount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "name and a positive targetAmount are required",
		})
		return
	}

	goal := &domain.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Status:        domain.GoalActive,
	}

	if h.repo != nil {
		if err := h.repo.SaveGoal(ctx, userID, goal); err != nil {
			slog.Error("failed to save goal", "name", goal.Name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save goal",
			})
			return
		}
	}

	writeJSON(w, http.StatusCreated, goal)
}

// GoalProgressRequest is the request body for PUT /goals/{id}/progress.
type GoalProgressRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateGoalProgress adds to a goal's saved amount, completing it when
// the target is reached, and publishes progress to the bus.
func (h *Handler) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := GetUserID(ctx)
	goalID := chi.URLParam(r, "id")

	var req GoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	goal, err := h.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "goal not found",
			})
			return
		}
		slog.Error("failed to get goal", "id", goalID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get goal",
		})
		return
	}

	goal.CurrentAmount += req.Amount
	achieved := goal.Status == domain.GoalActive && goal.CurrentAmount >= goal.TargetAmount
	if achieved {
		goal.Status = domain.GoalCompleted
	}

	if err := h.repo.SaveGoal(ctx, userID, goal); err != nil {
		slog.Error("failed to save goal", "id", goalID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save goal",
		})
		return
	}

	if h.bus != nil {
		percent := 0.0
		if goal.TargetAmount > 0 {
			percent = goal.CurrentAmount / goal.TargetAmount * 100
		}
		payload, _ := json.Marshal(domain.GoalProgressEvent{
			UserID:    userID,
			GoalName:  goal.Name,
			Percent:   percent,
			Remaining: goal.Remaining(),
			Achieved:  achieved,
		})
		if err := h.bus.Publish(ctx, userID, domain.TopicGoalProgress, payload); err != nil {
			slog.Error("failed to publish goal progress", "id", goalID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, goal)
}

// ListRules returns the rules currently loaded in the engine.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	loaded := h.rules.GetLoadedRules()

	writeJSON(w, http.StatusOK, map[string]any{
		"rules":  loaded,
		"count":  len(loaded),
		"source": "database",
	})
}

// CreateRuleRequest is the request body for creating a custom risk rule.
type CreateRuleRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Expression  string  `json:"expression"`
	Weight      float64 `json:"weight"`
	Cap         float64 `json:"cap,omitempty"`
	Enabled     bool    `json:"enabled"`
}

// CreateRule validates, loads, and persists a custom risk rule. Rules are
// saved globally (user_id = "*") so they apply to all users.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.ID == "" || req.Name == "" || req.Expression == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, and expression are required",
		})
		return
	}

	rule := &domain.RiskRule{
		ID:          req.ID,
		UserID:      domain.GlobalUserID,
		Name:        req.Name,
		Description: req.Description,
		Expression:  req.Expression,
		Weight:      req.Weight,
		Cap:         req.Cap,
		Enabled:     req.Enabled,
	}

	// Validate the CEL expression by attempting to load
	if err := h.rules.LoadRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid rule: " + err.Error(),
		})
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveRiskRule(ctx, domain.GlobalUserID, rule); err != nil {
			slog.Error("failed to save risk rule", "id", rule.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save rule",
			})
			return
		}
	}

	slog.Info("risk rule created", "id", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"rule":    rule,
		"message": "Rule created and loaded.",
	})
}

// ReloadRules reloads all enabled rules from the database into the
// engine. Enables hot-reloading without server restart.
func (h *Handler) ReloadRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	dbRules, err := h.repo.ListRiskRules(ctx, domain.GlobalUserID)
	if err != nil {
		slog.Error("failed to list rules from database", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules from database",
		})
		return
	}

	if err := h.rules.ReloadRules(dbRules); err != nil {
		slog.Error("failed to reload rules into engine", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload rules: " + err.Error(),
		})
		return
	}

	slog.Info("risk rules reloaded from database", "count", len(dbRules))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "rules reloaded successfully",
		"count":   len(dbRules),
	})
}

// ListNotifications returns the user's notification feed.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if h.notifier == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "notifier not available",
		})
		return
	}

	opts := notify.ListOptions{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Category:   r.URL.Query().Get("category"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			opts.Limit = n
		}
	}

	notifications := h.notifier.List(userID, opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        h.notifier.UnreadCount(userID),
	})
}

// MarkNotificationRead marks one notification as read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if h.notifier == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "notifier not available",
		})
		return
	}

	if !h.notifier.MarkRead(userID, id) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "notification not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllNotificationsRead marks the whole feed as read.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if h.notifier == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "notifier not available",
		})
		return
	}

	h.notifier.MarkAllRead(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.bus != nil {
		if err := h.bus.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
