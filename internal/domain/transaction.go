// Package domain defines the core types and interfaces for the behavioral
// spending guard.
package domain

import (
	"errors"
	"time"
)

// ErrInvalidInput is returned when a caller violates an input contract
// (negative amount, malformed timestamp, out-of-range configuration).
var ErrInvalidInput = errors.New("invalid input")

// Transaction represents a spending event to be evaluated.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CheckRequest is the API request payload for transaction evaluation.
type CheckRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	// Timestamp is optional RFC 3339; the current time is used when absent.
	Timestamp string `json:"timestamp,omitempty"`
	// RecentCount overrides the velocity lookup when the caller already
	// knows how many transactions happened in the last hour.
	RecentCount *int `json:"recentTransactionsCount,omitempty"`
}

// ToTransaction converts a request to a Transaction domain object.
func (r *CheckRequest) ToTransaction(userID string, ts time.Time) *Transaction {
	return &Transaction{
		UserID:      userID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Timestamp:   ts,
		CreatedAt:   time.Now().UTC(),
	}
}

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalCancelled = "cancelled"
)

// Goal is a savings target the user is working toward. The guard consumes
// goals read-only when composing interventions.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Remaining returns how much is still missing to reach the target.
func (g *Goal) Remaining() float64 {
	return g.TargetAmount - g.CurrentAmount
}

// BehavioralProfile describes a user's spending archetype. Optional input
// to the intervention composer; absence is never an error.
type BehavioralProfile struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RiskMultiplier float64 `json:"riskMultiplier"`
}
