package fraud

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel represents the severity of fraud risk
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// FingerprintBits is the width of the primary perceptual hash.
// Stored and query fingerprints must share it for Hamming comparison.
const FingerprintBits = 64

// Fingerprint is a compact perceptual summary of image pixel content.
// PHash is the primary hash used for distance comparison; DHash and
// AHash are auxiliary hashes kept for diagnostics. Immutable once
// appended to a store.
type Fingerprint struct {
	PHash uint64 `json:"phash"`
	DHash uint64 `json:"dhash"`
	AHash uint64 `json:"ahash"`
}

// Distance returns the bit-wise Hamming distance between the primary
// hashes of two fingerprints.
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(f.PHash ^ other.PHash)
}

// Hex returns the primary hash as a 16-character hex string.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", f.PHash)
}

// FingerprintRecord is one entry of the append-only duplicate history.
// Created exactly once per successfully processed image, never updated
// or deleted.
type FingerprintRecord struct {
	ClaimID     string      `json:"claim_id"`
	Fingerprint Fingerprint `json:"fingerprint"`
	RecordedAt  time.Time   `json:"recorded_at"`
}

// DuplicateMatch describes one prior claim whose image is within the
// similarity threshold of the submitted image.
type DuplicateMatch struct {
	ClaimID    string          `json:"claim_id"`
	Similarity decimal.Decimal `json:"similarity"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// DuplicateEvidence is the derived result of a duplicate check. It is
// recomputed per request and never persisted. Degraded is set when the
// check could not consult the fingerprint store (or the image could not
// be fingerprinted) and the claim was processed without duplicate
// evidence.
type DuplicateEvidence struct {
	IsDuplicate bool             `json:"is_duplicate"`
	Matches     []DuplicateMatch `json:"matches"`
	Degraded    bool             `json:"degraded"`
}

// Count returns the number of prior claims matched.
func (e DuplicateEvidence) Count() int {
	return len(e.Matches)
}

// ImageMetadata carries the camera/timestamp fields consumed by the
// metadata fraud scorer. Produced by the metadata-extraction
// collaborator.
type ImageMetadata struct {
	HasEXIF     bool   `json:"has_exif"`
	CameraMake  string `json:"camera_make"`
	CameraModel string `json:"camera_model"`
	Software    string `json:"software"`
	Timestamp   string `json:"timestamp"`
}

// ValidationResult is the externally computed metadata validation
// outcome consumed as input.
type ValidationResult struct {
	RiskScore decimal.Decimal `json:"risk_score"`
	Issues    []string        `json:"issues"`
}

// MetadataFraudScore is the bounded metadata fraud sub-score with its
// named indicators.
type MetadataFraudScore struct {
	Score      decimal.Decimal `json:"score"`
	Indicators []string        `json:"indicators"`
	RiskLevel  RiskLevel       `json:"risk_level"`
}

// ConsistencyFraudScore is the bounded claim/image consistency fraud
// sub-score with its indicators.
type ConsistencyFraudScore struct {
	Score      decimal.Decimal `json:"score"`
	Indicators []string        `json:"indicators"`
}

// ScoreBreakdown exposes the three sub-scores behind an overall
// assessment.
type ScoreBreakdown struct {
	Metadata    decimal.Decimal `json:"metadata_score"`
	Duplicate   decimal.Decimal `json:"duplicate_score"`
	Consistency decimal.Decimal `json:"consistency_score"`
}

// OverallFraudAssessment is the weighted combination of the duplicate,
// metadata and consistency sub-scores. Score is bounded to [0,10] and
// rounded to two decimals.
type OverallFraudAssessment struct {
	Score       decimal.Decimal `json:"overall_score"`
	RiskLevel   RiskLevel       `json:"risk_level"`
	IsDuplicate bool            `json:"is_duplicate"`
	Breakdown   ScoreBreakdown  `json:"breakdown"`
	Indicators  []string        `json:"indicators"`
}

// RiskLevelFromScore converts a 0-10 score to its coarse risk tier.
// Shared by all scorers: <=3 LOW, <=7 MEDIUM, above HIGH.
func RiskLevelFromScore(score decimal.Decimal) RiskLevel {
	switch {
	case score.LessThanOrEqual(decimal.NewFromInt(3)):
		return RiskLevelLow
	case score.LessThanOrEqual(decimal.NewFromInt(7)):
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}
