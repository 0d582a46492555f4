package fraud

import "errors"

var (
	// Duplicate check errors
	ErrImageDecode      = errors.New("image cannot be decoded or fingerprinted")
	ErrStoreUnavailable = errors.New("fingerprint store unavailable")
	ErrMissingClaimID   = errors.New("claim identifier is required")

	// Scoring errors
	ErrScoreOutOfRange  = errors.New("score outside the 0-10 range")
	ErrInvalidWeights   = errors.New("score weights must be non-negative")
	ErrInvalidThreshold = errors.New("similarity threshold must be within (0,1)")
)
