package domain

import (
	"time"
)

// Risk factor tags.
const (
	FactorNight     = "horario_noturno"
	FactorAmount    = "valor_alto"
	FactorCategory  = "categoria_risco"
	FactorFrequency = "frequencia_alta"
	FactorCustom    = "regra_customizada"
)

// RiskFactor is one additive contribution to a risk score.
type RiskFactor struct {
	Factor      string  `json:"factor"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// RiskAssessment is the complete result of scoring a transaction.
// Score is the integer floor of the factor sum, clamped to [0,100].
type RiskAssessment struct {
	Score          int            `json:"score"`
	IsHighRisk     bool           `json:"isHighRisk"`
	IsNight        bool           `json:"isNight"`
	Factors        []RiskFactor   `json:"riskFactors"`
	Recommendation Recommendation `json:"recommendation"`
}

// Recommendation levels.
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

// Recommendation actions.
const (
	ActionProceed = "proceed"
	ActionConfirm = "confirm"
	ActionDelay   = "delay"
	ActionBlock   = "block"
)

// Recommendation is a graded response derived from the score.
type Recommendation struct {
	Level        string   `json:"level"`
	Message      string   `json:"message"`
	Action       string   `json:"action"`
	DelayMinutes int      `json:"delayMinutes"`
	Questions    []string `json:"questions,omitempty"`
}

// RecommendationForScore maps a score to a recommendation using the fixed
// 30/50/70 breakpoints. delayMinutes is the configured base delay for
// high-risk purchases; the critical tier doubles it.
func RecommendationForScore(score, delayMinutes int) Recommendation {
	switch {
	case score < 30:
		return Recommendation{
			Level:   LevelLow,
			Message: "Transação dentro do padrão normal.",
			Action:  ActionProceed,
		}
	case score < 50:
		return Recommendation{
			Level:   LevelMedium,
			Message: "Considere se esta compra é realmente necessária.",
			Action:  ActionConfirm,
			Questions: []string{
				"Esta compra estava planejada?",
				"Você pode esperar até amanhã para decidir?",
			},
		}
	case score < 70:
		return Recommendation{
			Level:        LevelHigh,
			Message:      "Alerta: Este gasto pode ser por impulso.",
			Action:       ActionDelay,
			DelayMinutes: delayMinutes,
			Questions: []string{
				"Por que você quer fazer esta compra agora?",
				"Como vai se sentir amanhã com esta decisão?",
				"Esta compra te aproxima de suas metas financeiras?",
			},
		}
	default:
		return Recommendation{
			Level:        LevelCritical,
			Message:      "ATENÇÃO: Alto risco de compra por impulso!",
			Action:       ActionBlock,
			DelayMinutes: delayMinutes * 2,
			Questions: []string{
				"Você está sob estresse ou ansiedade agora?",
				"Já fez compras que se arrependeu em horários como este?",
				"O que aconteceria se você não comprasse isso?",
			},
		}
	}
}

// GateResult is the transaction gate's verdict.
type GateResult struct {
	Allowed           bool            `json:"allowed"`
	ProtectionEnabled bool            `json:"protectionEnabled"`
	BypassActive      bool            `json:"bypassActive,omitempty"`
	Reason            string          `json:"reason"`
	Assessment        *RiskAssessment `json:"assessment,omitempty"`
}

// Alert types.
const (
	AlertImpulse = "impulse"
	AlertNight   = "night"
)

// Alert is the signal emitted when a high-risk transaction is detected.
// Delivery (console, file, in-app feed) happens outside the gate.
type Alert struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	RiskScore int       `json:"riskScore"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProtectionStatus is a snapshot of the gate's state.
type ProtectionStatus struct {
	Enabled         bool       `json:"enabled"`
	IsNightPeriod   bool       `json:"isNightPeriod"`
	CurrentHourRisk float64    `json:"currentHourRisk"`
	BypassActive    bool       `json:"bypassActive"`
	BypassUntil     *time.Time `json:"bypassUntil,omitempty"`
	NightStart      string     `json:"nightStart"`
	NightEnd        string     `json:"nightEnd"`
	AmountThreshold float64    `json:"amountThreshold"`
}

// AssessmentRecord is the persisted form of a gate decision.
type AssessmentRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TxID      string    `json:"txId"`
	Score     int       `json:"score"`
	IsNight   bool      `json:"isNight"`
	Allowed   bool      `json:"allowed"`
	Reason    string    `json:"reason"`
	Level     string    `json:"level"`
	Factors   []RiskFactor `json:"factors"`
	CreatedAt time.Time `json:"createdAt"`
}
