package claim

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestDecide_HighFraudRejects(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(5),
		FraudScore:       dec(8.5),
		ConsistencyScore: dec(9),
	})

	assert.Equal(t, RecommendationReject, decision.Recommendation)
	assert.Equal(t, ConfidenceHigh, decision.Confidence)
	assert.Contains(t, decision.Reasons, "High fraud risk detected (score: 8.5/10)")
}

func TestDecide_FraudBoundarySevenRejects(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(5),
		FraudScore:       dec(7),
		ConsistencyScore: dec(9),
	})

	assert.Equal(t, RecommendationReject, decision.Recommendation)
}

func TestDecide_LowFraudHighConsistencyApproves(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(2),
		FraudScore:       dec(1.5),
		ConsistencyScore: dec(8),
	})

	assert.Equal(t, RecommendationApprove, decision.Recommendation)
	assert.Equal(t, ConfidenceHigh, decision.Confidence)
	assert.Contains(t, decision.Reasons, "Low fraud risk (1.5/10) and high consistency (8/10)")
}

func TestDecide_MidBandFraudGoesToReview(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(5),
		FraudScore:       dec(5),
		ConsistencyScore: dec(9),
	})

	assert.Equal(t, RecommendationManualReview, decision.Recommendation)
	assert.Equal(t, ConfidenceMedium, decision.Confidence)
	assert.Contains(t, decision.Reasons, "Moderate fraud risk (5/10) or consistency issues (9/10)")
}

func TestDecide_MidBandConsistencyGoesToReview(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(5),
		FraudScore:       dec(1),
		ConsistencyScore: dec(5),
	})

	assert.Equal(t, RecommendationManualReview, decision.Recommendation)
}

func TestDecide_SevereInconsistencyRejects(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(5),
		FraudScore:       dec(1),
		ConsistencyScore: dec(2),
	})

	assert.Equal(t, RecommendationReject, decision.Recommendation)
	assert.Equal(t, ConfidenceHigh, decision.Confidence)
	assert.Contains(t, decision.Reasons, "Severe inconsistency between claim and evidence (2/10)")
}

func TestDecide_MetadataOverrideDowngradesApprove(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:       dec(2),
		FraudScore:        dec(1),
		ConsistencyScore:  dec(9),
		MetadataRiskScore: dec(6),
	})

	assert.Equal(t, RecommendationManualReview, decision.Recommendation)
	assert.Contains(t, decision.Reasons, "Metadata validation concerns detected")
}

func TestDecide_MetadataOverrideIsNoOpOnReview(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:       dec(5),
		FraudScore:        dec(5),
		ConsistencyScore:  dec(5),
		MetadataRiskScore: dec(6),
	})

	// Mid-band fraud already lands in manual review; the metadata
	// override changes nothing but still appends its reason.
	assert.Equal(t, RecommendationManualReview, decision.Recommendation)
	assert.Equal(t, ConfidenceMedium, decision.Confidence)
	assert.Contains(t, decision.Reasons, "Moderate fraud risk (5/10) or consistency issues (5/10)")
	assert.Contains(t, decision.Reasons, "Metadata validation concerns detected")
}

func TestDecide_MetadataOverrideNeverTouchesReject(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:       dec(2),
		FraudScore:        dec(9),
		ConsistencyScore:  dec(9),
		MetadataRiskScore: dec(8),
	})

	assert.Equal(t, RecommendationReject, decision.Recommendation)
	assert.Contains(t, decision.Reasons, "Metadata validation concerns detected")
}

func TestDecide_MissingDuplicateEvidenceDowngradesConfidence(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:              dec(2),
		FraudScore:               dec(1),
		ConsistencyScore:         dec(9),
		DuplicateEvidenceMissing: true,
	})

	// The disposition survives; only certainty drops.
	assert.Equal(t, RecommendationApprove, decision.Recommendation)
	assert.Equal(t, ConfidenceMedium, decision.Confidence)
	assert.Contains(t, decision.Reasons,
		"Duplicate-image history was unavailable during assessment")
}

func TestDecide_DamageReasonAlwaysLast(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(9),
		FraudScore:       dec(8),
		ConsistencyScore: dec(9),
	})

	require.NotEmpty(t, decision.Reasons)
	assert.Equal(t, "Damage severity: Total Loss (9/10)",
		decision.Reasons[len(decision.Reasons)-1])
}

func TestDecide_ExplanationJoinsReasons(t *testing.T) {
	engine := NewEngine()

	decision := engine.Decide(DecisionInput{
		DamageScore:      dec(2),
		FraudScore:       dec(1),
		ConsistencyScore: dec(8),
	})

	assert.Equal(t,
		"Low fraud risk (1/10) and high consistency (8/10). Damage severity: Minor (2/10).",
		decision.Explanation)
}

func TestDecide_Deterministic(t *testing.T) {
	engine := NewEngine()
	input := DecisionInput{
		DamageScore:       dec(6),
		FraudScore:        dec(4.2),
		ConsistencyScore:  dec(6.5),
		MetadataRiskScore: dec(5),
	}

	first := engine.Decide(input)
	second := engine.Decide(input)

	assert.Equal(t, first, second)
}

func TestDamageCategory(t *testing.T) {
	engine := NewEngine()

	assert.Equal(t, "Minor", engine.DamageCategory(dec(3)))
	assert.Equal(t, "Moderate", engine.DamageCategory(dec(5)))
	assert.Equal(t, "Moderate", engine.DamageCategory(dec(7)))
	assert.Equal(t, "Severe", engine.DamageCategory(dec(8)))
	assert.Equal(t, "Total Loss", engine.DamageCategory(dec(8.5)))
}
