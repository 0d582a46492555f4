package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claim-assessment-engine/internal/domain/fraud"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func checkerboardImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/8+y/8)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFingerprint_Deterministic(t *testing.T) {
	hasher := NewHasher()
	data := encodePNG(t, gradientImage(64, 64))

	first, err := hasher.Fingerprint(data)
	require.NoError(t, err)
	second, err := hasher.Fingerprint(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFingerprint_DistinctImagesDiffer(t *testing.T) {
	hasher := NewHasher()

	gradient, err := hasher.Fingerprint(encodePNG(t, gradientImage(64, 64)))
	require.NoError(t, err)
	checker, err := hasher.Fingerprint(encodePNG(t, checkerboardImage(64, 64)))
	require.NoError(t, err)

	assert.NotEqual(t, gradient.PHash, checker.PHash)
}

func TestFingerprint_SurvivesLossyReencoding(t *testing.T) {
	hasher := NewHasher()
	img := gradientImage(128, 128)

	fromPNG, err := hasher.Fingerprint(encodePNG(t, img))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	fromJPEG, err := hasher.Fingerprint(buf.Bytes())
	require.NoError(t, err)

	// Re-compression shifts a few bits at most; the hashes stay close.
	assert.LessOrEqual(t, fromPNG.Distance(fromJPEG), 6)
}

func TestFingerprint_UndecodableBytes(t *testing.T) {
	hasher := NewHasher()

	_, err := hasher.Fingerprint([]byte("definitely not an image"))
	assert.ErrorIs(t, err, fraud.ErrImageDecode)

	_, err = hasher.Fingerprint(nil)
	assert.ErrorIs(t, err, fraud.ErrImageDecode)
}
