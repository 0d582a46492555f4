package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"claim-assessment-engine/internal/domain/claim"
)

// ClaimReportModel is the GORM model for persisted assessment reports.
// Structured sub-documents are stored as JSONB so the schema does not
// have to track every score field.
type ClaimReportModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClaimID        string    `gorm:"uniqueIndex;not null"`
	Recommendation string    `gorm:"index;not null"`
	FraudScore     string    `gorm:"not null"`
	Payload        []byte    `gorm:"type:jsonb;not null"`
	CreatedAt      time.Time `gorm:"index;not null"`
}

// TableName overrides the GORM table name.
func (ClaimReportModel) TableName() string {
	return "claim_reports"
}

// ClaimRepository implements claim.Repository on PostgreSQL.
type ClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository migrates the claim_reports table and returns the
// repository.
func NewClaimRepository(db *gorm.DB) (*ClaimRepository, error) {
	if err := db.AutoMigrate(&ClaimReportModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate claim_reports: %w", err)
	}
	return &ClaimRepository{db: db}, nil
}

// Save persists a full assessment report.
func (r *ClaimRepository) Save(ctx context.Context, report *claim.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	model := ClaimReportModel{
		ID:             report.ID,
		ClaimID:        report.ClaimID,
		Recommendation: string(report.Decision.Recommendation),
		FraudScore:     report.Fraud.Score.String(),
		Payload:        payload,
		CreatedAt:      report.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save claim report: %w", err)
	}
	return nil
}

// GetByID loads a report by its claim identifier.
func (r *ClaimRepository) GetByID(ctx context.Context, claimID string) (*claim.Report, error) {
	var model ClaimReportModel
	err := r.db.WithContext(ctx).Where("claim_id = ?", claimID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, claim.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load claim report: %w", err)
	}

	var report claim.Report
	if err := json.Unmarshal(model.Payload, &report); err != nil {
		return nil, fmt.Errorf("claim report %s is corrupt: %w", claimID, err)
	}
	return &report, nil
}

// List returns summaries of stored reports, newest first. A limit of
// zero or less means no limit.
func (r *ClaimRepository) List(ctx context.Context, limit, offset int) ([]claim.Summary, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []ClaimReportModel
	err := query.Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list claim reports: %w", err)
	}

	summaries := make([]claim.Summary, 0, len(models))
	for _, model := range models {
		var report claim.Report
		if err := json.Unmarshal(model.Payload, &report); err != nil {
			return nil, fmt.Errorf("claim report %s is corrupt: %w", model.ClaimID, err)
		}
		summaries = append(summaries, report.Summarize())
	}
	return summaries, nil
}
