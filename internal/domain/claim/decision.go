package claim

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Thresholds are the fixed cut points of the decision rule cascade and
// the damage severity labels.
type Thresholds struct {
	FraudLow        decimal.Decimal `json:"fraud_low"`
	FraudHigh       decimal.Decimal `json:"fraud_high"`
	ConsistencyLow  decimal.Decimal `json:"consistency_low"`
	ConsistencyHigh decimal.Decimal `json:"consistency_high"`
	MetadataRisk    decimal.Decimal `json:"metadata_risk"`
	DamageMinor     decimal.Decimal `json:"damage_minor"`
	DamageModerate  decimal.Decimal `json:"damage_moderate"`
	DamageSevere    decimal.Decimal `json:"damage_severe"`
}

// DefaultThresholds returns the standard cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FraudLow:        decimal.NewFromInt(3),
		FraudHigh:       decimal.NewFromInt(7),
		ConsistencyLow:  decimal.NewFromInt(4),
		ConsistencyHigh: decimal.NewFromInt(7),
		MetadataRisk:    decimal.NewFromInt(5),
		DamageMinor:     decimal.NewFromInt(3),
		DamageModerate:  decimal.NewFromInt(7),
		DamageSevere:    decimal.NewFromInt(8),
	}
}

// DecisionInput bundles the normalized scores a decision is computed
// from. All scores are expected in [0,10]; callers clamp before
// invoking the engine.
type DecisionInput struct {
	DamageScore       decimal.Decimal
	FraudScore        decimal.Decimal
	ConsistencyScore  decimal.Decimal
	MetadataRiskScore decimal.Decimal

	// DuplicateEvidenceMissing marks that the duplicate check ran in
	// degraded mode; the decision downgrades confidence rather than
	// aborting.
	DuplicateEvidenceMissing bool
}

// Engine applies the ordered rule cascade that turns damage, fraud and
// consistency scores into a final disposition. It is a pure function of
// its input: same scores, same recommendation, confidence and reason
// ordering on every invocation.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a decision engine with the default thresholds.
func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds()}
}

// SetThresholds overrides the cascade cut points.
func (e *Engine) SetThresholds(t Thresholds) {
	e.thresholds = t
}

// Decide evaluates the rule cascade in priority order. The first
// matching rule fixes the recommendation/confidence pair; the
// post-cascade metadata override can downgrade an APPROVE to
// MANUAL_REVIEW but never upgrades and never touches a REJECT. A
// damage-severity reason is always appended last.
func (e *Engine) Decide(in DecisionInput) Decision {
	t := e.thresholds

	recommendation := RecommendationManualReview
	confidence := ConfidenceMedium
	var reasons []string

	switch {
	// Rule 1: high fraud risk rejects outright.
	case in.FraudScore.GreaterThanOrEqual(t.FraudHigh):
		recommendation = RecommendationReject
		confidence = ConfidenceHigh
		reasons = append(reasons,
			fmt.Sprintf("High fraud risk detected (score: %s/10)", in.FraudScore))

	// Rule 2: low fraud plus high consistency fast-tracks approval.
	case in.FraudScore.LessThanOrEqual(t.FraudLow) &&
		in.ConsistencyScore.GreaterThanOrEqual(t.ConsistencyHigh):
		recommendation = RecommendationApprove
		confidence = ConfidenceHigh
		reasons = append(reasons,
			fmt.Sprintf("Low fraud risk (%s/10) and high consistency (%s/10)",
				in.FraudScore, in.ConsistencyScore))

	// Rule 3: mid-band fraud or consistency needs a human.
	case (in.FraudScore.GreaterThan(t.FraudLow) && in.FraudScore.LessThan(t.FraudHigh)) ||
		(in.ConsistencyScore.GreaterThan(t.ConsistencyLow) && in.ConsistencyScore.LessThan(t.ConsistencyHigh)):
		recommendation = RecommendationManualReview
		confidence = ConfidenceMedium
		reasons = append(reasons,
			fmt.Sprintf("Moderate fraud risk (%s/10) or consistency issues (%s/10)",
				in.FraudScore, in.ConsistencyScore))

	// Rule 4: severe inconsistency rejects even when fraud is low.
	case in.ConsistencyScore.LessThan(t.ConsistencyLow):
		recommendation = RecommendationReject
		confidence = ConfidenceHigh
		reasons = append(reasons,
			fmt.Sprintf("Severe inconsistency between claim and evidence (%s/10)",
				in.ConsistencyScore))

		// Default: boundary scores not covered above stay in manual review.
	}

	// Metadata override: downgrade an APPROVE, never upgrade, never
	// touch a REJECT. The reason is appended even when the
	// recommendation is already MANUAL_REVIEW.
	if in.MetadataRiskScore.GreaterThanOrEqual(t.MetadataRisk) {
		if recommendation == RecommendationApprove {
			recommendation = RecommendationManualReview
		}
		reasons = append(reasons, "Metadata validation concerns detected")
	}

	// Missing duplicate evidence degrades certainty, never the
	// disposition itself.
	if in.DuplicateEvidenceMissing {
		if confidence == ConfidenceHigh {
			confidence = ConfidenceMedium
		}
		reasons = append(reasons, "Duplicate-image history was unavailable during assessment")
	}

	reasons = append(reasons,
		fmt.Sprintf("Damage severity: %s (%s/10)",
			e.DamageCategory(in.DamageScore), in.DamageScore))

	return Decision{
		Recommendation: recommendation,
		Confidence:     confidence,
		Explanation:    strings.Join(reasons, ". ") + ".",
		Reasons:        reasons,
		Scores: DecisionScores{
			Damage:      in.DamageScore,
			Fraud:       in.FraudScore,
			Consistency: in.ConsistencyScore,
		},
	}
}

// DamageCategory labels a damage score: <=3 Minor, <=7 Moderate,
// <=8 Severe, above Total Loss.
func (e *Engine) DamageCategory(damageScore decimal.Decimal) string {
	t := e.thresholds
	switch {
	case damageScore.LessThanOrEqual(t.DamageMinor):
		return "Minor"
	case damageScore.LessThanOrEqual(t.DamageModerate):
		return "Moderate"
	case damageScore.LessThanOrEqual(t.DamageSevere):
		return "Severe"
	default:
		return "Total Loss"
	}
}
