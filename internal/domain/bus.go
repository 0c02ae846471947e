package domain

import (
	"context"
)

// EventBus defines the interface for event-driven communication.
// Supports Go channels (local tier) or NATS (Pro). All methods require
// userID for per-user isolation.
type EventBus interface {
	// Publish sends a message to a topic.
	Publish(ctx context.Context, userID string, topic string, payload []byte) error

	// Subscribe registers a handler for a topic.
	Subscribe(ctx context.Context, userID string, topic string, handler MessageHandler) (Subscription, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// MessageHandler processes incoming messages.
type MessageHandler func(ctx context.Context, msg *Message) error

// Message represents an event message.
type Message struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Topic     string            `json:"topic"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp int64             `json:"timestamp"`
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe stops receiving messages.
	Unsubscribe() error

	// Topic returns the subscribed topic.
	Topic() string
}

// EventBusConfig holds configuration for event bus initialization.
type EventBusConfig struct {
	// Type is the bus type: "channel" or "nats"
	Type string

	// Channel settings (local tier)
	ChannelBufferSize int

	// NATS settings (Pro tier)
	NATSUrl           string
	NATSToken         string
	NATSMaxReconnects int
	NATSReconnectWait int // seconds
}

// Standard topic names.
const (
	TopicDecision     = "dashboard.transaction.decision"
	TopicAlert        = "dashboard.alert"
	TopicBlocked      = "dashboard.purchase.blocked"
	TopicGoalProgress = "dashboard.goal.progress"
)

// BlockedEvent is the payload published on TopicBlocked when the gate
// denies a purchase.
type BlockedEvent struct {
	UserID string  `json:"userId"`
	TxID   string  `json:"txId"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// GoalProgressEvent is the payload published on TopicGoalProgress when a
// goal's progress changes.
type GoalProgressEvent struct {
	UserID    string  `json:"userId"`
	GoalName  string  `json:"goalName"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Achieved  bool    `json:"achieved"`
}
