package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/bus"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

func publishAndWait(t *testing.T, b domain.EventBus, userID, topic string, payload any, n *Notifier, want int) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := b.Publish(context.Background(), userID, topic, data); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(n.List(userID, ListOptions{})) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %d notifications", want)
}

func TestNotifierFeed(t *testing.T) {
	b := bus.NewChannelBus(100)
	defer b.Close()

	n := NewNotifier(b, "")
	if err := n.Start(context.Background(), []string{"local"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer n.Stop()

	t.Run("NightAlert", func(t *testing.T) {
		alert := domain.Alert{
			Type:      domain.AlertNight,
			UserID:    "local",
			Message:   "Transação de R$150.00 em jogos",
			RiskScore: 85,
			CreatedAt: time.Now(),
		}
		publishAndWait(t, b, "local", domain.TopicAlert, alert, n, 1)

		notifs := n.List("local", ListOptions{})
		if notifs[0].Category != "night" {
			t.Errorf("expected category 'night', got %q", notifs[0].Category)
		}
		if notifs[0].Type != TypeAlert {
			t.Errorf("expected type alert, got %q", notifs[0].Type)
		}
		if notifs[0].Title != "Alerta Noturno" {
			t.Errorf("unexpected title: %q", notifs[0].Title)
		}
	})

	t.Run("BlockedPurchase", func(t *testing.T) {
		ev := domain.BlockedEvent{
			UserID: "local",
			TxID:   "tx-001",
			Amount: 600,
			Reason: "valor significativo requer reflexão",
		}
		publishAndWait(t, b, "local", domain.TopicBlocked, ev, n, 2)

		notifs := n.List("local", ListOptions{Category: "blocked"})
		if len(notifs) != 1 {
			t.Fatalf("expected 1 blocked notification, got %d", len(notifs))
		}
		if notifs[0].Type != TypeCritical {
			t.Errorf("expected critical type, got %q", notifs[0].Type)
		}
	})

	t.Run("GoalAchieved", func(t *testing.T) {
		ev := domain.GoalProgressEvent{
			UserID:   "local",
			GoalName: "Viagem",
			Percent:  100,
			Achieved: true,
		}
		publishAndWait(t, b, "local", domain.TopicGoalProgress, ev, n, 3)

		notifs := n.List("local", ListOptions{Category: "goal"})
		if len(notifs) != 1 {
			t.Fatalf("expected 1 goal notification, got %d", len(notifs))
		}
		if notifs[0].Type != TypeSuccess {
			t.Errorf("expected success type, got %q", notifs[0].Type)
		}
	})

	t.Run("MarkRead", func(t *testing.T) {
		before := n.UnreadCount("local")
		if before != 3 {
			t.Fatalf("expected 3 unread, got %d", before)
		}

		notifs := n.List("local", ListOptions{Limit: 1})
		if !n.MarkRead("local", notifs[0].ID) {
			t.Fatal("MarkRead returned false for existing notification")
		}
		if n.UnreadCount("local") != 2 {
			t.Errorf("expected 2 unread after MarkRead, got %d", n.UnreadCount("local"))
		}

		unread := n.List("local", ListOptions{UnreadOnly: true})
		if len(unread) != 2 {
			t.Errorf("expected 2 unread in list, got %d", len(unread))
		}

		n.MarkAllRead("local")
		if n.UnreadCount("local") != 0 {
			t.Errorf("expected 0 unread after MarkAllRead, got %d", n.UnreadCount("local"))
		}
	})

	t.Run("UnknownID", func(t *testing.T) {
		if n.MarkRead("local", "nope") {
			t.Error("expected false for unknown notification ID")
		}
	})

	t.Run("UserIsolation", func(t *testing.T) {
		if got := n.List("someone-else", ListOptions{}); len(got) != 0 {
			t.Errorf("expected empty feed for other user, got %d", len(got))
		}
	})
}
