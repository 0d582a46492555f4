package fraud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHasher struct {
	fp  Fingerprint
	err error
}

func (h stubHasher) Fingerprint(image []byte) (Fingerprint, error) {
	return h.fp, h.err
}

type stubStore struct {
	records   []FingerprintRecord
	appended  []FingerprintRecord
	findErr   error
	appendErr error
}

func (s *stubStore) Append(ctx context.Context, claimID string, fp Fingerprint) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, FingerprintRecord{
		ClaimID:     claimID,
		Fingerprint: fp,
		RecordedAt:  time.Now(),
	})
	return nil
}

func (s *stubStore) FindNear(ctx context.Context, fp Fingerprint, maxDistance int) ([]FingerprintRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var hits []FingerprintRecord
	for _, rec := range s.records {
		if fp.Distance(rec.Fingerprint) <= maxDistance {
			hits = append(hits, rec)
		}
	}
	return hits, nil
}

func TestService_MaxHammingDistance(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, stubHasher{})

	// floor((1-0.9)*64) = 6
	assert.Equal(t, 6, svc.MaxHammingDistance())

	require.NoError(t, svc.SetSimilarityThreshold(0.75))
	assert.Equal(t, 16, svc.MaxHammingDistance())
}

func TestService_SetSimilarityThresholdRejectsOutOfRange(t *testing.T) {
	svc := NewService(&stubStore{}, stubHasher{})

	assert.ErrorIs(t, svc.SetSimilarityThreshold(0), ErrInvalidThreshold)
	assert.ErrorIs(t, svc.SetSimilarityThreshold(1), ErrInvalidThreshold)
	assert.ErrorIs(t, svc.SetSimilarityThreshold(1.5), ErrInvalidThreshold)
}

func TestCheckDuplicate_FirstSubmissionIsNotDuplicate(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 0xABCD}})

	evidence, fp, err := svc.CheckDuplicate(context.Background(), "CLM-1", []byte("img"))

	require.NoError(t, err)
	assert.False(t, evidence.IsDuplicate)
	assert.False(t, evidence.Degraded)
	assert.Equal(t, uint64(0xABCD), fp.PHash)

	// The fingerprint is appended even when no match was found.
	require.Len(t, store.appended, 1)
	assert.Equal(t, "CLM-1", store.appended[0].ClaimID)
}

func TestCheckDuplicate_ExactMatch(t *testing.T) {
	prior := FingerprintRecord{
		ClaimID:     "CLM-1",
		Fingerprint: Fingerprint{PHash: 0xABCD},
		RecordedAt:  time.Now().Add(-time.Hour),
	}
	store := &stubStore{records: []FingerprintRecord{prior}}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 0xABCD}})

	evidence, _, err := svc.CheckDuplicate(context.Background(), "CLM-2", []byte("img"))

	require.NoError(t, err)
	assert.True(t, evidence.IsDuplicate)
	require.Len(t, evidence.Matches, 1)
	assert.Equal(t, "CLM-1", evidence.Matches[0].ClaimID)
	assert.Equal(t, "1", evidence.Matches[0].Similarity.String())
}

func TestCheckDuplicate_NearMatchSimilarity(t *testing.T) {
	// Distance 6: similarity 1 - 6/64 = 0.90625, rounded to 0.906.
	prior := FingerprintRecord{
		ClaimID:     "CLM-1",
		Fingerprint: Fingerprint{PHash: 0x3F}, // six low bits flipped vs 0
	}
	store := &stubStore{records: []FingerprintRecord{prior}}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 0}})

	evidence, _, err := svc.CheckDuplicate(context.Background(), "CLM-2", []byte("img"))

	require.NoError(t, err)
	require.Len(t, evidence.Matches, 1)
	assert.Equal(t, "0.906", evidence.Matches[0].Similarity.String())
}

func TestCheckDuplicate_BeyondThresholdNotMatched(t *testing.T) {
	// Distance 7 exceeds the default max distance of 6.
	prior := FingerprintRecord{
		ClaimID:     "CLM-1",
		Fingerprint: Fingerprint{PHash: 0x7F},
	}
	store := &stubStore{records: []FingerprintRecord{prior}}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 0}})

	evidence, _, err := svc.CheckDuplicate(context.Background(), "CLM-2", []byte("img"))

	require.NoError(t, err)
	assert.False(t, evidence.IsDuplicate)
}

func TestCheckDuplicate_MissingClaimID(t *testing.T) {
	svc := NewService(&stubStore{}, stubHasher{})

	_, _, err := svc.CheckDuplicate(context.Background(), "", []byte("img"))

	assert.ErrorIs(t, err, ErrMissingClaimID)
}

func TestCheckDuplicate_DecodeFailureIsFatal(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, stubHasher{err: errors.New("not an image")})

	_, _, err := svc.CheckDuplicate(context.Background(), "CLM-1", []byte("junk"))

	assert.ErrorIs(t, err, ErrImageDecode)
	assert.Empty(t, store.appended)
}

func TestCheckDuplicate_StoreQueryFailureDegrades(t *testing.T) {
	store := &stubStore{findErr: ErrStoreUnavailable}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 1}})

	evidence, _, err := svc.CheckDuplicate(context.Background(), "CLM-1", []byte("img"))

	require.NoError(t, err)
	assert.True(t, evidence.Degraded)
	assert.False(t, evidence.IsDuplicate)

	// The fingerprint append is still attempted on a failed query.
	require.Len(t, store.appended, 1)
}

func TestCheckDuplicate_AppendFailureDegrades(t *testing.T) {
	store := &stubStore{appendErr: ErrStoreUnavailable}
	svc := NewService(store, stubHasher{fp: Fingerprint{PHash: 1}})

	evidence, _, err := svc.CheckDuplicate(context.Background(), "CLM-1", []byte("img"))

	require.NoError(t, err)
	assert.True(t, evidence.Degraded)
}

func TestFingerprint_Distance(t *testing.T) {
	a := Fingerprint{PHash: 0b1010}
	b := Fingerprint{PHash: 0b0101}

	assert.Equal(t, 4, a.Distance(b))
	assert.Equal(t, 0, a.Distance(a))
}
