package fraud

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultSimilarityThreshold is the fraction of matching bits above
// which two fingerprints are considered duplicates.
const DefaultSimilarityThreshold = 0.9

// Service performs duplicate detection against the fingerprint store
// and combines the sub-scorers into an overall fraud assessment. The
// scoring paths are pure; the store is the only shared mutable
// resource.
type Service struct {
	store  FingerprintStore
	hasher Fingerprinter

	similarityThreshold float64
	weights             ScoreWeights
}

// NewService creates a fraud service with the default similarity
// threshold and score weights.
func NewService(store FingerprintStore, hasher Fingerprinter) *Service {
	return &Service{
		store:               store,
		hasher:              hasher,
		similarityThreshold: DefaultSimilarityThreshold,
		weights:             DefaultScoreWeights(),
	}
}

// SetSimilarityThreshold overrides the duplicate similarity threshold.
func (s *Service) SetSimilarityThreshold(threshold float64) error {
	if threshold <= 0 || threshold >= 1 {
		return ErrInvalidThreshold
	}
	s.similarityThreshold = threshold
	return nil
}

// SetScoreWeights overrides the aggregation weights.
func (s *Service) SetScoreWeights(weights ScoreWeights) error {
	if err := weights.Validate(); err != nil {
		return err
	}
	s.weights = weights
	return nil
}

// MaxHammingDistance converts the similarity threshold into the maximum
// allowed Hamming distance: floor((1-threshold) * bit width). Higher
// thresholds yield smaller distances.
func (s *Service) MaxHammingDistance() int {
	return int(math.Floor((1 - s.similarityThreshold) * FingerprintBits))
}

// CheckDuplicate fingerprints the submitted image, queries the store
// for near matches, and appends the new fingerprint afterwards so a
// claim never matches itself. The append happens regardless of the
// query outcome: the history grows monotonically and every claim
// becomes detectable by later submissions.
//
// A fingerprinting failure is fatal for the check and returns an error
// wrapping ErrImageDecode; it is never reported as "not duplicate". A
// store failure degrades the check instead: the evidence comes back
// with Degraded set and claim processing continues.
func (s *Service) CheckDuplicate(ctx context.Context, claimID string, image []byte) (DuplicateEvidence, Fingerprint, error) {
	if claimID == "" {
		return DuplicateEvidence{}, Fingerprint{}, ErrMissingClaimID
	}

	fp, err := s.hasher.Fingerprint(image)
	if err != nil {
		if errors.Is(err, ErrImageDecode) {
			return DuplicateEvidence{}, Fingerprint{}, err
		}
		return DuplicateEvidence{}, Fingerprint{}, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	maxDistance := s.MaxHammingDistance()

	records, err := s.store.FindNear(ctx, fp, maxDistance)
	if err != nil {
		log.Warn().Err(err).Str("claim_id", claimID).
			Msg("Fingerprint store query failed; duplicate check degraded")
		s.appendFingerprint(ctx, claimID, fp)
		return DuplicateEvidence{Degraded: true}, fp, nil
	}

	matches := make([]DuplicateMatch, 0, len(records))
	for _, rec := range records {
		distance := fp.Distance(rec.Fingerprint)
		similarity := decimal.NewFromInt(1).
			Sub(decimal.NewFromInt(int64(distance)).Div(decimal.NewFromInt(FingerprintBits))).
			Round(3)
		matches = append(matches, DuplicateMatch{
			ClaimID:    rec.ClaimID,
			Similarity: similarity,
			RecordedAt: rec.RecordedAt,
		})
	}

	evidence := DuplicateEvidence{
		IsDuplicate: len(matches) > 0,
		Matches:     matches,
	}

	if !s.appendFingerprint(ctx, claimID, fp) {
		evidence.Degraded = true
	}

	return evidence, fp, nil
}

// Aggregate combines the sub-scores using the service's configured
// weights.
func (s *Service) Aggregate(metadata MetadataFraudScore, evidence DuplicateEvidence, consistency ConsistencyFraudScore) OverallFraudAssessment {
	return Aggregate(metadata, evidence, consistency, s.weights)
}

func (s *Service) appendFingerprint(ctx context.Context, claimID string, fp Fingerprint) bool {
	start := time.Now()
	if err := s.store.Append(ctx, claimID, fp); err != nil {
		log.Error().Err(err).Str("claim_id", claimID).
			Msg("Failed to append fingerprint; future duplicate checks will miss this claim")
		return false
	}
	log.Debug().Str("claim_id", claimID).Str("phash", fp.Hex()).
		Dur("elapsed", time.Since(start)).Msg("Fingerprint recorded")
	return true
}
