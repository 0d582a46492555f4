// Package imaging computes perceptual fingerprints from raw image
// bytes using difference/average/perception hashing.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"

	"claim-assessment-engine/internal/domain/fraud"
)

// Hasher implements fraud.Fingerprinter over decodable raster images.
// The perceptual hash is deterministic for identical pixel content,
// stable under lossless re-encoding and tolerant to minor
// re-compression.
type Hasher struct{}

// NewHasher creates a perceptual image hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint decodes the image and computes its fingerprint: a 64-bit
// perception hash as the primary, with difference and average hashes as
// auxiliaries. Returns an error wrapping fraud.ErrImageDecode when the
// bytes are not a decodable image.
func (h *Hasher) Fingerprint(data []byte) (fraud.Fingerprint, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fraud.Fingerprint{}, fmt.Errorf("%w: %v", fraud.ErrImageDecode, err)
	}

	phash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return fraud.Fingerprint{}, fmt.Errorf("%w: perception hash (%s): %v", fraud.ErrImageDecode, format, err)
	}
	dhash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return fraud.Fingerprint{}, fmt.Errorf("%w: difference hash (%s): %v", fraud.ErrImageDecode, format, err)
	}
	ahash, err := goimagehash.AverageHash(img)
	if err != nil {
		return fraud.Fingerprint{}, fmt.Errorf("%w: average hash (%s): %v", fraud.ErrImageDecode, format, err)
	}

	return fraud.Fingerprint{
		PHash: phash.GetHash(),
		DHash: dhash.GetHash(),
		AHash: ahash.GetHash(),
	}, nil
}
