// Package hashstore provides the fingerprint store backends: a
// file-backed linear scan and a PostgreSQL-backed index. Both satisfy
// the same distance and ordering contract.
package hashstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"claim-assessment-engine/internal/domain/fraud"
)

// storedFingerprint is the JSON representation of one history entry.
// Hashes are stored as hex strings to keep the file readable.
type storedFingerprint struct {
	ClaimID    string    `json:"claim_id"`
	PHash      string    `json:"phash"`
	DHash      string    `json:"dhash"`
	AHash      string    `json:"ahash"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FileStore keeps the append-only fingerprint history in a JSON file
// and answers nearest-fingerprint queries with a linear Hamming scan.
// A single mutex serializes every call; appends are written via a
// temp-file rename so a crash never truncates the history.
type FileStore struct {
	path string

	mu      sync.Mutex
	records []storedFingerprint
}

// NewFileStore opens (or creates) the fingerprint history file.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read fingerprint history: %w", err)
	default:
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("fingerprint history is corrupt: %w", err)
		}
	}

	return s, nil
}

// Append records a fingerprint and persists the history atomically.
func (s *FileStore) Append(ctx context.Context, claimID string, fp fraud.Fingerprint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, storedFingerprint{
		ClaimID:    claimID,
		PHash:      formatHash(fp.PHash),
		DHash:      formatHash(fp.DHash),
		AHash:      formatHash(fp.AHash),
		RecordedAt: time.Now().UTC(),
	})

	if err := s.flushLocked(); err != nil {
		// Roll the in-memory slice back so a failed write is not
		// reported as committed.
		s.records = s.records[:len(s.records)-1]
		return err
	}
	return nil
}

// FindNear scans the stored history and returns every record within
// maxDistance Hamming bits, ordered by ascending distance then by
// RecordedAt ascending on ties.
func (s *FileStore) FindNear(ctx context.Context, fp fraud.Fingerprint, maxDistance int) ([]fraud.FingerprintRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		record   fraud.FingerprintRecord
		distance int
	}

	var hits []scored
	for _, stored := range s.records {
		rec, err := stored.toRecord()
		if err != nil {
			return nil, fmt.Errorf("fingerprint history is corrupt: %w", err)
		}
		if d := fp.Distance(rec.Fingerprint); d <= maxDistance {
			hits = append(hits, scored{record: rec, distance: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].record.RecordedAt.Before(hits[j].record.RecordedAt)
	})

	records := make([]fraud.FingerprintRecord, 0, len(hits))
	for _, h := range hits {
		records = append(records, h.record)
	}
	return records, nil
}

// Ping reports whether the history file is still accessible.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	return nil
}

// Len returns the number of stored fingerprints.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fingerprint history: %w", err)
	}
	if s.records == nil {
		data = []byte("[]")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	return nil
}

func (f storedFingerprint) toRecord() (fraud.FingerprintRecord, error) {
	phash, err := parseHash(f.PHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	dhash, err := parseHash(f.DHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	ahash, err := parseHash(f.AHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	return fraud.FingerprintRecord{
		ClaimID:     f.ClaimID,
		Fingerprint: fraud.Fingerprint{PHash: phash, DHash: dhash, AHash: ahash},
		RecordedAt:  f.RecordedAt,
	}, nil
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func parseHash(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
