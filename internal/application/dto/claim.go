package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"claim-assessment-engine/internal/domain/claim"
	"claim-assessment-engine/internal/domain/fraud"
)

// AssessmentResponse represents the complete claim assessment outcome
type AssessmentResponse struct {
	ReportID uuid.UUID `json:"report_id"`
	ClaimID  string    `json:"claim_id"`

	// Decision
	Recommendation string   `json:"recommendation"`
	Confidence     string   `json:"confidence"`
	Explanation    string   `json:"explanation"`
	Reasons        []string `json:"reasons"`

	// Scores
	DamageScore      decimal.Decimal `json:"damage_score"`
	FraudScore       decimal.Decimal `json:"fraud_score"`
	ConsistencyScore decimal.Decimal `json:"consistency_score"`
	RiskLevel        string          `json:"risk_level"`

	// Duplicate evidence
	IsDuplicate     bool                  `json:"is_duplicate"`
	DuplicateOf     []DuplicateMatchEntry `json:"duplicate_of,omitempty"`
	DegradedCheck   bool                  `json:"degraded_duplicate_check,omitempty"`
	FraudBreakdown  fraud.ScoreBreakdown  `json:"fraud_breakdown"`
	FraudIndicators []string              `json:"fraud_indicators,omitempty"`

	// Performance
	LatencyMs   int64     `json:"latency_ms"`
	ProcessedAt time.Time `json:"processed_at"`
}

// DuplicateMatchEntry represents one matched prior claim
type DuplicateMatchEntry struct {
	ClaimID    string          `json:"claim_id"`
	Similarity decimal.Decimal `json:"similarity"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// FromAssessment builds the API response from a completed assessment
func FromAssessment(report *claim.Report, evidence fraud.DuplicateEvidence, latencyMs int64) AssessmentResponse {
	matches := make([]DuplicateMatchEntry, 0, len(evidence.Matches))
	for _, m := range evidence.Matches {
		matches = append(matches, DuplicateMatchEntry{
			ClaimID:    m.ClaimID,
			Similarity: m.Similarity,
			RecordedAt: m.RecordedAt,
		})
	}

	return AssessmentResponse{
		ReportID:         report.ID,
		ClaimID:          report.ClaimID,
		Recommendation:   string(report.Decision.Recommendation),
		Confidence:       string(report.Decision.Confidence),
		Explanation:      report.Decision.Explanation,
		Reasons:          report.Decision.Reasons,
		DamageScore:      report.Damage.Score,
		FraudScore:       report.Fraud.Score,
		ConsistencyScore: report.Consistency.Score,
		RiskLevel:        string(report.Fraud.RiskLevel),
		IsDuplicate:      evidence.IsDuplicate,
		DuplicateOf:      matches,
		DegradedCheck:    evidence.Degraded,
		FraudBreakdown:   report.Fraud.Breakdown,
		FraudIndicators:  report.Fraud.Indicators,
		LatencyMs:        latencyMs,
		ProcessedAt:      report.CreatedAt,
	}
}

// ReportResponse wraps a full stored report
type ReportResponse struct {
	Report *claim.Report `json:"report"`
}

// ListResponse wraps the claim listing
type ListResponse struct {
	Claims []claim.Summary `json:"claims"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
