package fraud

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// editingTools are software tags that indicate the image may have been
// manipulated before submission. Matched case-insensitively as
// substrings of the EXIF software field.
var editingTools = []string{"photoshop", "gimp", "pixlr", "lightroom", "snapseed"}

var (
	scoreFloor   = decimal.Zero
	scoreCeiling = decimal.NewFromInt(10)
)

// clampScore bounds a score to [0,10] and reports whether it had to be
// adjusted. Collaborator scores outside the documented range are
// clamped rather than rejected; the caller records a data-quality
// indicator instead.
func clampScore(score decimal.Decimal) (decimal.Decimal, bool) {
	if score.LessThan(scoreFloor) {
		return scoreFloor, true
	}
	if score.GreaterThan(scoreCeiling) {
		return scoreCeiling, true
	}
	return score, false
}

// ScoreMetadata converts camera/timestamp metadata plus an externally
// computed validation result into a bounded fraud sub-score. The
// contributions are additive and order-independent: the validation risk
// score is the base, missing EXIF adds 3, a known editing tool adds 2,
// a stripped camera make adds 1. Validation issues are carried over as
// indicators verbatim without further score contribution.
func ScoreMetadata(meta ImageMetadata, validation ValidationResult) MetadataFraudScore {
	indicators := make([]string, 0, len(validation.Issues)+3)

	base, adjusted := clampScore(validation.RiskScore)
	if adjusted {
		indicators = append(indicators, "Validation risk score outside 0-10 range; value clamped")
	}
	score := base

	if !meta.HasEXIF {
		score = score.Add(decimal.NewFromInt(3))
		indicators = append(indicators, "Missing EXIF data")
	}

	if meta.Software != "" {
		software := strings.ToLower(meta.Software)
		for _, tool := range editingTools {
			if strings.Contains(software, tool) {
				score = score.Add(decimal.NewFromInt(2))
				indicators = append(indicators, fmt.Sprintf("Edited with %s", tool))
				break
			}
		}
	}

	if meta.CameraMake == "Unknown" && meta.HasEXIF {
		score = score.Add(decimal.NewFromInt(1))
		indicators = append(indicators, "Camera information missing despite EXIF presence")
	}

	indicators = append(indicators, validation.Issues...)

	score, _ = clampScore(score)

	return MetadataFraudScore{
		Score:      score,
		Indicators: indicators,
		RiskLevel:  RiskLevelFromScore(score),
	}
}

// ScoreConsistency maps an externally computed claim/image consistency
// score (0-10, higher = more consistent) onto a fraud sub-score using
// discrete tiers. The boolean flag is supplied independently by the
// upstream check and may disagree with the tier on borderline scores;
// when flagged inconsistent an additional indicator is appended
// regardless of tier.
func ScoreConsistency(consistencyScore decimal.Decimal, isConsistent bool) ConsistencyFraudScore {
	var indicators []string

	score, adjusted := clampScore(consistencyScore)
	if adjusted {
		indicators = append(indicators, "Consistency score outside 0-10 range; value clamped")
	}

	var fraudScore decimal.Decimal
	switch {
	case score.GreaterThanOrEqual(decimal.NewFromInt(7)):
		fraudScore = decimal.NewFromInt(1)
	case score.GreaterThanOrEqual(decimal.NewFromInt(4)):
		fraudScore = decimal.NewFromInt(5)
		indicators = append(indicators, "Moderate inconsistency between claim and image")
	default:
		fraudScore = decimal.NewFromInt(9)
		indicators = append(indicators, "Severe inconsistency between claim and image")
	}

	if !isConsistent {
		indicators = append(indicators, "Claim description does not match visual evidence")
	}

	return ConsistencyFraudScore{
		Score:      fraudScore,
		Indicators: indicators,
	}
}
