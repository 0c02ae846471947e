package domain

// RiskRule is an operator-defined CEL expression that contributes an
// extra risk factor on top of the fixed scoring factors. Expressions see
// {amount, category, hour, is_night, recent_count} and must return a
// bool (scored as 0/1) or a number.
type RiskRule struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Expression string `json:"expression"`

	// Weight scales the expression's numeric result.
	Weight float64 `json:"weight"`

	// Cap bounds the rule's contribution. Zero means DefaultRuleCap.
	Cap float64 `json:"cap,omitempty"`

	Enabled bool `json:"enabled"`
}

// DefaultRuleCap bounds a custom rule's factor score when no cap is set.
const DefaultRuleCap = 20.0

// GlobalUserID marks rules that apply to every user.
const GlobalUserID = "*"
