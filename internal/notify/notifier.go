// Package notify delivers user-facing notifications built from bus
// events: high-risk alerts, blocked purchases, and goal progress.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// feedCap bounds the in-memory notification feed per notifier.
const feedCap = 1000

// Notification types.
const (
	TypeInfo     = "info"
	TypeWarning  = "warning"
	TypeAlert    = "alert"
	TypeSuccess  = "success"
	TypeCritical = "critical"
)

// Notification is one entry in the user's feed.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

// Notifier consumes bus events and materializes a capped per-process
// notification feed. Every notification is also logged to the console;
// an optional file sink appends one line per notification.
type Notifier struct {
	bus domain.EventBus

	mu   sync.Mutex
	feed []Notification
	now  func() time.Time

	filePath string

	subscriptions []domain.Subscription
}

// NewNotifier creates a notifier. filePath may be empty to disable the
// file sink.
func NewNotifier(bus domain.EventBus, filePath string) *Notifier {
	return &Notifier{
		bus:      bus,
		now:      time.Now,
		filePath: filePath,
	}
}

// SetClock overrides the notifier's clock. Test hook.
func (n *Notifier) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

// Start subscribes to the notification-relevant topics for the given
// users. An empty list subscribes the default local user.
func (n *Notifier) Start(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		userIDs = []string{domain.DefaultUserID}
	}

	for _, userID := range userIDs {
		subs := []struct {
			topic   string
			handler domain.MessageHandler
		}{
			{domain.TopicAlert, n.handleAlert},
			{domain.TopicBlocked, n.handleBlocked},
			{domain.TopicGoalProgress, n.handleGoalProgress},
		}

		for _, s := range subs {
			sub, err := n.bus.Subscribe(ctx, userID, s.topic, s.handler)
			if err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", s.topic, err)
			}
			n.subscriptions = append(n.subscriptions, sub)
		}

		slog.Info("notifier started",
			"user_id", userID,
			"topics", 3,
		)
	}

	return nil
}

// Stop unsubscribes from all topics.
func (n *Notifier) Stop() {
	for _, sub := range n.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	n.subscriptions = nil
}

// handleAlert turns a gate alert into a feed notification.
func (n *Notifier) handleAlert(ctx context.Context, msg *domain.Message) error {
	var alert domain.Alert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		slog.Error("failed to parse alert payload",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	var title, message string
	typ := TypeAlert
	category := "impulse"

	switch alert.Type {
	case domain.AlertNight:
		category = "night"
		title = "Alerta Noturno"
		message = fmt.Sprintf(
			"%s Compras neste horário tendem a ser por impulso.",
			alert.Message,
		)
	default:
		title = "Gasto de Risco"
		message = fmt.Sprintf(
			"%s Score de risco: %d/100",
			alert.Message, alert.RiskScore,
		)
	}

	n.push(msg.UserID, typ, category, title, message)
	return nil
}

// handleBlocked turns a blocked-purchase event into a feed notification.
func (n *Notifier) handleBlocked(ctx context.Context, msg *domain.Message) error {
	var ev domain.BlockedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		slog.Error("failed to parse blocked payload",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	n.push(msg.UserID, TypeCritical, "blocked",
		"Compra Bloqueada",
		fmt.Sprintf(
			"Uma compra de R$ %.2f foi bloqueada por medida de proteção. Motivo: %s",
			ev.Amount, ev.Reason,
		),
	)
	return nil
}

// handleGoalProgress turns a goal event into a feed notification.
func (n *Notifier) handleGoalProgress(ctx context.Context, msg *domain.Message) error {
	var ev domain.GoalProgressEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		slog.Error("failed to parse goal progress payload",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	if ev.Achieved {
		n.push(msg.UserID, TypeSuccess, "goal",
			"Meta Alcançada!",
			fmt.Sprintf("Parabéns! Você alcançou a meta \"%s\"!", ev.GoalName),
		)
		return nil
	}

	n.push(msg.UserID, TypeInfo, "goal",
		"Progresso da Meta",
		fmt.Sprintf(
			"Você atingiu %.0f%% da meta \"%s\"! Faltam R$ %.2f",
			ev.Percent, ev.GoalName, ev.Remaining,
		),
	)
	return nil
}

// push appends a notification and fans it out to console and file.
func (n *Notifier) push(userID, typ, category, title, message string) {
	n.mu.Lock()

	notif := Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Category:  category,
		Title:     title,
		Message:   message,
		CreatedAt: n.now(),
	}

	n.feed = append(n.feed, notif)
	if len(n.feed) > feedCap {
		n.feed = append([]Notification(nil), n.feed[len(n.feed)-feedCap:]...)
	}
	n.mu.Unlock()

	n.toConsole(notif)
	n.toFile(notif)
}

func (n *Notifier) toConsole(notif Notification) {
	logFn := slog.Info
	switch notif.Type {
	case TypeWarning, TypeAlert:
		logFn = slog.Warn
	case TypeCritical:
		logFn = slog.Error
	}
	logFn("notification",
		"user_id", notif.UserID,
		"category", notif.Category,
		"title", notif.Title,
		"message", notif.Message,
	)
}

func (n *Notifier) toFile(notif Notification) {
	if n.filePath == "" {
		return
	}

	f, err := os.OpenFile(n.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("failed to open notification log", "path", n.filePath, "error", err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] [%s] %s: %s\n",
		notif.CreatedAt.Format(time.RFC3339), notif.Type, notif.Title, notif.Message)
}

// ListOptions filters the feed.
type ListOptions struct {
	UnreadOnly bool
	Category   string
	Limit      int
}

// List returns the user's notifications, most recent first.
func (n *Notifier) List(userID string, opts ListOptions) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []Notification
	for i := len(n.feed) - 1; i >= 0; i-- {
		notif := n.feed[i]
		if notif.UserID != userID {
			continue
		}
		if opts.UnreadOnly && notif.Read {
			continue
		}
		if opts.Category != "" && notif.Category != opts.Category {
			continue
		}
		out = append(out, notif)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// MarkRead marks one notification as read. Returns false when the ID is
// unknown or belongs to another user.
func (n *Notifier) MarkRead(userID, notificationID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := range n.feed {
		if n.feed[i].ID == notificationID && n.feed[i].UserID == userID {
			if !n.feed[i].Read {
				now := n.now()
				n.feed[i].Read = true
				n.feed[i].ReadAt = &now
			}
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification of the user as read.
func (n *Notifier) MarkAllRead(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	for i := range n.feed {
		if n.feed[i].UserID == userID && !n.feed[i].Read {
			n.feed[i].Read = true
			n.feed[i].ReadAt = &now
		}
	}
}

// UnreadCount returns the number of unread notifications for the user.
func (n *Notifier) UnreadCount(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := 0
	for i := range n.feed {
		if n.feed[i].UserID == userID && !n.feed[i].Read {
			count++
		}
	}
	return count
}
