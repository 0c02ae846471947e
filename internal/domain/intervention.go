package domain

import (
	"time"
)

// InterventionLevel is the graded intensity of a behavioral response.
// Its 30/50/75 breakpoints are deliberately NOT the recommendation's
// 30/50/70 scale; the two gradings are kept independent.
type InterventionLevel string

const (
	InterventionGentle   InterventionLevel = "gentle"
	InterventionModerate InterventionLevel = "moderate"
	InterventionStrong   InterventionLevel = "strong"
	InterventionCritical InterventionLevel = "critical"
)

// Intervention component types.
const (
	ComponentQuestion      = "question"
	ComponentDelay         = "delay"
	ComponentComparison    = "comparison"
	ComponentVisualization = "visualization"
	ComponentAlternative   = "alternative"
	ComponentBlock         = "block"
)

// InterventionComponent is one piece of a composed intervention. Exactly
// one of the content fields is set, matching Type.
type InterventionComponent struct {
	Type string `json:"type"`

	Questions     []string          `json:"questions,omitempty"`
	Impact        map[string]string `json:"impact,omitempty"`
	Comparison    *GoalComparison   `json:"comparison,omitempty"`
	Alternatives  []string          `json:"alternatives,omitempty"`
	Delay         *DelayContent     `json:"delay,omitempty"`
	Block         *BlockContent     `json:"block,omitempty"`
}

// DelayContent describes a mandatory waiting period.
type DelayContent struct {
	Minutes   int       `json:"minutes"`
	ExpiresAt time.Time `json:"expiresAt"`
	Message   string    `json:"message"`
}

// BlockContent describes a temporary purchase block.
type BlockContent struct {
	Reason           string `json:"reason"`
	CanOverride      bool   `json:"canOverride"`
	OverrideRequires string `json:"overrideRequires"`
}

// GoalComparison relates a purchase to the user's active goals.
type GoalComparison struct {
	Comparisons []GoalImpact `json:"comparisons"`
	Summary     string       `json:"summary"`
}

// GoalImpact is the share of one goal's remaining amount this purchase
// represents.
type GoalImpact struct {
	GoalName            string  `json:"goalName"`
	Remaining           float64 `json:"remaining"`
	ThisPurchasePercent float64 `json:"thisPurchasePercent"`
	Message             string  `json:"message"`
}

// ActionChoice is a suggested user action attached to an intervention.
type ActionChoice struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Style  string `json:"style"`
}

// Intervention is a leveled, multi-component behavioral response to a
// risky transaction. Immutable after composition.
type Intervention struct {
	Level       InterventionLevel       `json:"level"`
	RiskScore   int                     `json:"riskScore"`
	CreatedAt   time.Time               `json:"timestamp"`
	Components  []InterventionComponent `json:"components"`
	MainMessage string                  `json:"mainMessage"`
	Actions     []ActionChoice          `json:"actions"`
}

// Component returns the first component of the given type, or nil.
func (iv *Intervention) Component(typ string) *InterventionComponent {
	for i := range iv.Components {
		if iv.Components[i].Type == typ {
			return &iv.Components[i]
		}
	}
	return nil
}

// DelayRecord is a temporary hold on a specific transaction.
type DelayRecord struct {
	UserID    string    `json:"userId"`
	TxID      string    `json:"transactionId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Minutes   int       `json:"minutes"`
}

// DelayStatus reports whether a hold still gates confirmation.
// Expired is set only on the first query after expiry; the record is
// removed at that point, so later queries report a plain inactive state.
type DelayStatus struct {
	Active           bool       `json:"active"`
	Expired          bool       `json:"expired,omitempty"`
	RemainingSeconds int        `json:"remainingSeconds,omitempty"`
	RemainingMinutes float64    `json:"remainingMinutes,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	CanProceed       bool       `json:"canProceed"`
}

// InterventionStats aggregates the composer's history.
type InterventionStats struct {
	Total   int            `json:"total"`
	ByLevel map[string]int `json:"byLevel,omitempty"`
}
