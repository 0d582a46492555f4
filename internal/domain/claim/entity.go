package claim

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"claim-assessment-engine/internal/domain/fraud"
)

// Recommendation is the final claim disposition.
type Recommendation string

const (
	RecommendationApprove      Recommendation = "APPROVE"
	RecommendationManualReview Recommendation = "MANUAL_REVIEW"
	RecommendationReject       Recommendation = "REJECT"
)

// Confidence expresses how certain the engine is about a
// recommendation.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// DecisionScores carries the three normalized inputs the decision was
// based on.
type DecisionScores struct {
	Damage      decimal.Decimal `json:"damage"`
	Fraud       decimal.Decimal `json:"fraud"`
	Consistency decimal.Decimal `json:"consistency"`
}

// Decision is the outcome of the rule cascade for one claim
// submission. Created once, immutable thereafter; the explanation is
// the ordered concatenation of every triggered reason.
type Decision struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     Confidence     `json:"confidence"`
	Explanation    string         `json:"explanation"`
	Reasons        []string       `json:"reasons"`
	Scores         DecisionScores `json:"scores"`
}

// Info carries the submitted claim fields.
type Info struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Location    string `json:"location"`
	PolicyID    string `json:"policy_id"`
}

// DamageAssessment summarizes the damage-analysis collaborator's
// output for reporting.
type DamageAssessment struct {
	Score        decimal.Decimal `json:"score"`
	Severity     string          `json:"severity"`
	DamagedParts []string        `json:"damaged_parts"`
	Description  string          `json:"description"`
}

// ConsistencyAnalysis summarizes the consistency-check collaborator's
// output for reporting.
type ConsistencyAnalysis struct {
	Score        decimal.Decimal `json:"score"`
	IsConsistent bool            `json:"is_consistent"`
	Explanation  string          `json:"explanation"`
}

// Report is the persisted record of a fully assessed claim.
type Report struct {
	ID          uuid.UUID                    `json:"id"`
	ClaimID     string                       `json:"claim_id"`
	Info        Info                         `json:"claim_info"`
	Decision    Decision                     `json:"decision"`
	Damage      DamageAssessment             `json:"damage_assessment"`
	Fraud       fraud.OverallFraudAssessment `json:"fraud_analysis"`
	Consistency ConsistencyAnalysis          `json:"consistency_analysis"`
	CreatedAt   time.Time                    `json:"created_at"`
}

// NewReport creates a report shell for a claim submission.
func NewReport(claimID string, info Info) *Report {
	return &Report{
		ID:        uuid.New(),
		ClaimID:   claimID,
		Info:      info,
		CreatedAt: time.Now().UTC(),
	}
}

// Summary is the condensed listing view of a report.
type Summary struct {
	ClaimID        string          `json:"claim_id"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	Description    string          `json:"claim_description"`
	Recommendation Recommendation  `json:"recommendation"`
	FraudScore     decimal.Decimal `json:"fraud_score"`
	DamageScore    decimal.Decimal `json:"damage_score"`
}

// summaryDescriptionLimit bounds the description shown in listings.
const summaryDescriptionLimit = 100

// Summarize produces the condensed listing view of a report.
func (r *Report) Summarize() Summary {
	desc := r.Info.Description
	if len(desc) > summaryDescriptionLimit {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character into invalid UTF-8.
		cut := summaryDescriptionLimit
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut]
	}
	return Summary{
		ClaimID:        r.ClaimID,
		SubmittedAt:    r.CreatedAt,
		Description:    desc,
		Recommendation: r.Decision.Recommendation,
		FraudScore:     r.Fraud.Score,
		DamageScore:    r.Damage.Score,
	}
}
