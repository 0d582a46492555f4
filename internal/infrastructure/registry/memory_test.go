package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claim-assessment-engine/internal/domain/claim"
)

func newReport(claimID string) *claim.Report {
	report := claim.NewReport(claimID, claim.Info{Description: "Rear bumper damage after parking collision"})
	report.Decision.Recommendation = claim.RecommendationApprove
	report.Fraud.Score = decimal.NewFromFloat(1.5)
	report.Damage.Score = decimal.NewFromInt(4)
	return report
}

func TestMemoryRegistry_SaveAndGet(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	report := newReport("CLM-1")
	require.NoError(t, reg.Save(ctx, report))

	got, err := reg.GetByID(ctx, "CLM-1")
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, claim.RecommendationApprove, got.Decision.Recommendation)
}

func TestMemoryRegistry_GetMissingReturnsNotFound(t *testing.T) {
	reg := NewMemoryRegistry()

	_, err := reg.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, claim.ErrReportNotFound)
}

func TestMemoryRegistry_DuplicateSaveRejected(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, newReport("CLM-1")))
	err := reg.Save(ctx, newReport("CLM-1"))
	assert.ErrorIs(t, err, claim.ErrReportAlreadyExists)
}

func TestMemoryRegistry_ListNewestFirst(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, reg.Save(ctx, newReport(fmt.Sprintf("CLM-%d", i))))
	}

	summaries, err := reg.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "CLM-3", summaries[0].ClaimID)
	assert.Equal(t, "CLM-2", summaries[1].ClaimID)
	assert.Equal(t, "CLM-1", summaries[2].ClaimID)
}

func TestMemoryRegistry_ListPaginates(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, reg.Save(ctx, newReport(fmt.Sprintf("CLM-%d", i))))
	}

	page, err := reg.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "CLM-4", page[0].ClaimID)
	assert.Equal(t, "CLM-3", page[1].ClaimID)

	empty, err := reg.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryRegistry_SummaryTruncatesDescription(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	report := claim.NewReport("CLM-long", claim.Info{Description: string(long)})
	require.NoError(t, reg.Save(ctx, report))

	summaries, err := reg.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Len(t, summaries[0].Description, 100)
}
