// Package registry provides the in-memory claim report registry used
// when no database is configured.
package registry

import (
	"context"
	"sync"

	"claim-assessment-engine/internal/domain/claim"
)

// MemoryRegistry keeps assessment reports in a map guarded by a
// read-write mutex. Reports survive only for the process lifetime.
type MemoryRegistry struct {
	mu      sync.RWMutex
	reports map[string]*claim.Report
	order   []string
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{reports: make(map[string]*claim.Report)}
}

// Save stores a report keyed by its claim identifier.
func (r *MemoryRegistry) Save(ctx context.Context, report *claim.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[report.ClaimID]; exists {
		return claim.ErrReportAlreadyExists
	}
	r.reports[report.ClaimID] = report
	r.order = append(r.order, report.ClaimID)
	return nil
}

// GetByID returns the report for a claim identifier.
func (r *MemoryRegistry) GetByID(ctx context.Context, claimID string) (*claim.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[claimID]
	if !ok {
		return nil, claim.ErrReportNotFound
	}
	return report, nil
}

// List returns summaries of stored reports, newest first. A limit of
// zero or less means no limit.
func (r *MemoryRegistry) List(ctx context.Context, limit, offset int) ([]claim.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]claim.Summary, 0, len(r.order))
	for i := len(r.order) - 1 - offset; i >= 0; i-- {
		if limit > 0 && len(summaries) == limit {
			break
		}
		summaries = append(summaries, r.reports[r.order[i]].Summarize())
	}
	return summaries, nil
}
