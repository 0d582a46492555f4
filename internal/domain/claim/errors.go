package claim

import "errors"

var (
	ErrReportNotFound      = errors.New("claim report not found")
	ErrReportAlreadyExists = errors.New("claim report already exists")
	ErrDescriptionTooShort = errors.New("claim description must be at least 10 characters")
	ErrMissingImage        = errors.New("claim image is required")
)
