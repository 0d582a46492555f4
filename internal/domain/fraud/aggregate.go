package fraud

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScoreWeights defines how much each sub-score contributes to the
// overall fraud score.
type ScoreWeights struct {
	Metadata    decimal.Decimal `json:"metadata"`
	Duplicate   decimal.Decimal `json:"duplicate"`
	Consistency decimal.Decimal `json:"consistency"`
}

// DefaultScoreWeights returns the standard weighting: duplication is
// the strongest signal at 0.4, metadata and consistency carry 0.3
// each.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Metadata:    decimal.NewFromFloat(0.3),
		Duplicate:   decimal.NewFromFloat(0.4),
		Consistency: decimal.NewFromFloat(0.3),
	}
}

// Validate checks that no weight is negative.
func (w ScoreWeights) Validate() error {
	for _, d := range []decimal.Decimal{w.Metadata, w.Duplicate, w.Consistency} {
		if d.IsNegative() {
			return ErrInvalidWeights
		}
	}
	return nil
}

// Aggregate combines the metadata sub-score, duplicate evidence and
// consistency sub-score into one weighted overall fraud score, rounded
// to two decimals. Duplication contributes a binary sub-score: 10 when
// any match was found, 0 otherwise. Any match above the similarity
// threshold is treated as maximally suspicious; similarity magnitude is
// not graded.
func Aggregate(metadata MetadataFraudScore, evidence DuplicateEvidence, consistency ConsistencyFraudScore, weights ScoreWeights) OverallFraudAssessment {
	duplicateScore := decimal.Zero
	if evidence.IsDuplicate {
		duplicateScore = decimal.NewFromInt(10)
	}

	overall := weights.Metadata.Mul(metadata.Score).
		Add(weights.Duplicate.Mul(duplicateScore)).
		Add(weights.Consistency.Mul(consistency.Score)).
		Round(2)

	// Sub-score indicators are merged in scoring order; each sub-score
	// keeps its own list in the breakdown consumers see.
	indicators := make([]string, 0, len(metadata.Indicators)+len(consistency.Indicators)+2)
	indicators = append(indicators, metadata.Indicators...)
	if evidence.IsDuplicate {
		indicators = append(indicators,
			fmt.Sprintf("Image reused from %d previous claim(s)", evidence.Count()))
	}
	if evidence.Degraded {
		indicators = append(indicators,
			"Duplicate detection unavailable; claim was not checked against prior images")
	}
	indicators = append(indicators, consistency.Indicators...)

	return OverallFraudAssessment{
		Score:       overall,
		RiskLevel:   RiskLevelFromScore(overall),
		IsDuplicate: evidence.IsDuplicate,
		Breakdown: ScoreBreakdown{
			Metadata:    metadata.Score,
			Duplicate:   duplicateScore,
			Consistency: consistency.Score,
		},
		Indicators: indicators,
	}
}
