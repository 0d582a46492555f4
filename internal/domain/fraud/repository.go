package fraud

import "context"

// FingerprintStore persists fingerprints of previously seen claim
// images and answers nearest-fingerprint queries. The history is
// append-only: no update or delete operation is exposed.
//
// Implementations must guarantee that a completed Append is visible to
// all subsequent FindNear calls, and that concurrent Appends never lose
// or corrupt entries. Two concurrent submissions may each miss the
// other's fingerprint; that race is acceptable.
type FingerprintStore interface {
	// Append records a fingerprint for a processed claim image.
	Append(ctx context.Context, claimID string, fp Fingerprint) error

	// FindNear returns all records whose primary hash is within
	// maxDistance Hamming bits of fp, ordered by ascending distance,
	// then by RecordedAt ascending (oldest first) on ties.
	FindNear(ctx context.Context, fp Fingerprint, maxDistance int) ([]FingerprintRecord, error)
}

// Fingerprinter computes a perceptual fingerprint from raw image bytes.
// Implementations return an error wrapping ErrImageDecode when the
// content is not a decodable raster image.
type Fingerprinter interface {
	Fingerprint(image []byte) (Fingerprint, error)
}
