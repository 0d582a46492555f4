// Package assess contains the claim assessment use cases.
package assess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"claim-assessment-engine/internal/domain/claim"
	"claim-assessment-engine/internal/domain/fraud"
	"claim-assessment-engine/internal/pkg/metrics"
)

// minDescriptionLength is the smallest accepted claim description.
const minDescriptionLength = 10

// ReportCache is the optional read-through cache for stored reports.
type ReportCache interface {
	Put(ctx context.Context, report *claim.Report) error
	Get(ctx context.Context, claimID string) (*claim.Report, error)
}

// DamageSignal is the damage-analysis collaborator's output consumed
// as assessment input.
type DamageSignal struct {
	Score        decimal.Decimal
	DamagedParts []string
	Description  string
}

// ConsistencySignal is the claim/image consistency collaborator's
// output consumed as assessment input.
type ConsistencySignal struct {
	Score        decimal.Decimal
	IsConsistent bool
	Explanation  string
}

// AssessClaimInput contains the input for one claim assessment
type AssessClaimInput struct {
	ClaimID string
	Image   []byte
	Info    claim.Info

	Damage      DamageSignal
	Consistency ConsistencySignal
	Metadata    fraud.ImageMetadata
	Validation  fraud.ValidationResult
}

// AssessClaimOutput contains the assessment result
type AssessClaimOutput struct {
	Report    *claim.Report           `json:"report"`
	Duplicate fraud.DuplicateEvidence `json:"duplicate_evidence"`
	LatencyMs int64                   `json:"latency_ms"`
}

// AssessClaimUseCase orchestrates the full assessment pipeline: the
// duplicate check, the fraud sub-scorers, the aggregation, the decision
// cascade and the report registry.
type AssessClaimUseCase struct {
	fraudService *fraud.Service
	engine       *claim.Engine
	registry     claim.Repository
	cache        ReportCache

	assessmentTimeout time.Duration
}

// NewAssessClaimUseCase creates a new assess claim use case. The cache
// may be nil when Redis is not configured.
func NewAssessClaimUseCase(
	fraudService *fraud.Service,
	engine *claim.Engine,
	registry claim.Repository,
	cache ReportCache,
	assessmentTimeout time.Duration,
) *AssessClaimUseCase {
	return &AssessClaimUseCase{
		fraudService:      fraudService,
		engine:            engine,
		registry:          registry,
		cache:             cache,
		assessmentTimeout: assessmentTimeout,
	}
}

// Execute runs the assessment pipeline for one claim submission.
func (uc *AssessClaimUseCase) Execute(ctx context.Context, input AssessClaimInput) (*AssessClaimOutput, error) {
	startTime := time.Now()

	if len(input.Image) == 0 {
		return nil, claim.ErrMissingImage
	}
	if len(strings.TrimSpace(input.Info.Description)) < minDescriptionLength {
		return nil, claim.ErrDescriptionTooShort
	}
	if input.ClaimID == "" {
		input.ClaimID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.assessmentTimeout)
	defer cancel()

	var (
		evidence  fraud.DuplicateEvidence
		metaScore fraud.MetadataFraudScore
		consScore fraud.ConsistencyFraudScore
	)

	consistencyScore := clampScore(input.Consistency.Score)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ev, _, err := uc.fraudService.CheckDuplicate(gctx, input.ClaimID, input.Image)
		if errors.Is(err, fraud.ErrImageDecode) {
			// An unreadable image cannot be fingerprinted; the claim is
			// still assessed on the remaining signals.
			log.Warn().Err(err).Str("claim_id", input.ClaimID).
				Msg("Image could not be fingerprinted; duplicate check degraded")
			evidence = fraud.DuplicateEvidence{Degraded: true}
			return nil
		}
		if err != nil {
			return fmt.Errorf("duplicate check failed: %w", err)
		}
		evidence = ev
		return nil
	})
	g.Go(func() error {
		metaScore = fraud.ScoreMetadata(input.Metadata, input.Validation)
		return nil
	})
	g.Go(func() error {
		consScore = fraud.ScoreConsistency(consistencyScore, input.Consistency.IsConsistent)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assessment := uc.fraudService.Aggregate(metaScore, evidence, consScore)

	decision := uc.engine.Decide(claim.DecisionInput{
		DamageScore:              clampScore(input.Damage.Score),
		FraudScore:               assessment.Score,
		ConsistencyScore:         consistencyScore,
		MetadataRiskScore:        clampScore(input.Validation.RiskScore),
		DuplicateEvidenceMissing: evidence.Degraded,
	})

	report := claim.NewReport(input.ClaimID, input.Info)
	report.Decision = decision
	report.Damage = claim.DamageAssessment{
		Score:        clampScore(input.Damage.Score),
		Severity:     uc.engine.DamageCategory(clampScore(input.Damage.Score)),
		DamagedParts: input.Damage.DamagedParts,
		Description:  input.Damage.Description,
	}
	report.Fraud = assessment
	report.Consistency = claim.ConsistencyAnalysis{
		Score:        consistencyScore,
		IsConsistent: input.Consistency.IsConsistent,
		Explanation:  input.Consistency.Explanation,
	}

	// Registry failures do not void an assessment that already
	// completed; the report is returned to the caller regardless.
	if err := uc.registry.Save(ctx, report); err != nil {
		log.Error().Err(err).Str("claim_id", report.ClaimID).
			Msg("Failed to save assessment report")
	} else if uc.cache != nil {
		if err := uc.cache.Put(ctx, report); err != nil {
			log.Warn().Err(err).Str("claim_id", report.ClaimID).
				Msg("Failed to cache assessment report")
		}
	}

	uc.recordMetrics(report, evidence, startTime)

	return &AssessClaimOutput{
		Report:    report,
		Duplicate: evidence,
		LatencyMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// GetReport loads an assessment report, consulting the cache first.
func (uc *AssessClaimUseCase) GetReport(ctx context.Context, claimID string) (*claim.Report, error) {
	if claimID == "" {
		return nil, claim.ErrReportNotFound
	}

	if uc.cache != nil {
		report, err := uc.cache.Get(ctx, claimID)
		if err != nil {
			log.Warn().Err(err).Str("claim_id", claimID).Msg("Report cache lookup failed")
		} else if report != nil {
			return report, nil
		}
	}

	report, err := uc.registry.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, report); err != nil {
			log.Warn().Err(err).Str("claim_id", claimID).Msg("Failed to cache assessment report")
		}
	}
	return report, nil
}

// ListReports returns summaries of stored reports, newest first.
func (uc *AssessClaimUseCase) ListReports(ctx context.Context, limit, offset int) ([]claim.Summary, error) {
	return uc.registry.List(ctx, limit, offset)
}

func (uc *AssessClaimUseCase) recordMetrics(report *claim.Report, evidence fraud.DuplicateEvidence, startTime time.Time) {
	metrics.ClaimsAssessed.WithLabelValues(string(report.Decision.Recommendation)).Inc()
	if evidence.IsDuplicate {
		metrics.DuplicateHits.Inc()
	}
	if evidence.Degraded {
		metrics.DegradedChecks.Inc()
	}
	metrics.AssessmentDuration.Observe(time.Since(startTime).Seconds())
}

func clampScore(score decimal.Decimal) decimal.Decimal {
	switch {
	case score.LessThan(decimal.Zero):
		return decimal.Zero
	case score.GreaterThan(decimal.NewFromInt(10)):
		return decimal.NewFromInt(10)
	default:
		return score
	}
}
