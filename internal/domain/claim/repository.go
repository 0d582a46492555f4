package claim

import "context"

// Repository is the claim report registry. It is an explicit store
// object created at process start and injected into the assessment
// pipeline, never a hidden singleton.
type Repository interface {
	// Save stores the report of a fully assessed claim.
	Save(ctx context.Context, report *Report) error

	// GetByID retrieves a report by claim identifier. Returns
	// ErrReportNotFound when no report exists.
	GetByID(ctx context.Context, claimID string) (*Report, error)

	// List returns report summaries ordered newest first.
	List(ctx context.Context, limit, offset int) ([]Summary, error)
}
