package hashstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"claim-assessment-engine/internal/domain/fraud"
)

// FingerprintModel is the GORM model for the fingerprint history.
// Hashes are stored as BIT(64) so Hamming distance can be computed
// in SQL with bit_count.
type FingerprintModel struct {
	ID         uint      `gorm:"primaryKey"`
	ClaimID    string    `gorm:"index;not null"`
	PHash      string    `gorm:"type:bit(64);not null"`
	DHash      string    `gorm:"type:bit(64);not null"`
	AHash      string    `gorm:"type:bit(64);not null"`
	RecordedAt time.Time `gorm:"index;not null"`
}

// TableName overrides the GORM table name.
func (FingerprintModel) TableName() string {
	return "image_fingerprints"
}

// PostgresStore keeps the fingerprint history in PostgreSQL and pushes
// the Hamming distance computation into the database, so FindNear does
// not need to page the whole history into memory.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore migrates the fingerprint table and returns the store.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&FingerprintModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate image_fingerprints: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Append inserts one fingerprint row.
func (s *PostgresStore) Append(ctx context.Context, claimID string, fp fraud.Fingerprint) error {
	model := FingerprintModel{
		ClaimID:    claimID,
		PHash:      formatBits(fp.PHash),
		DHash:      formatBits(fp.DHash),
		AHash:      formatBits(fp.AHash),
		RecordedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	return nil
}

// FindNear queries for rows whose perceptual hash is within maxDistance
// Hamming bits, ordered by distance then insertion time.
func (s *PostgresStore) FindNear(ctx context.Context, fp fraud.Fingerprint, maxDistance int) ([]fraud.FingerprintRecord, error) {
	var rows []FingerprintModel
	err := s.db.WithContext(ctx).
		Raw(`SELECT id, claim_id, p_hash, d_hash, a_hash, recorded_at
		     FROM image_fingerprints
		     WHERE bit_count(p_hash # ?::bit(64)) <= ?
		     ORDER BY bit_count(p_hash # ?::bit(64)) ASC, recorded_at ASC`,
			formatBits(fp.PHash), maxDistance, formatBits(fp.PHash)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}

	records := make([]fraud.FingerprintRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("fingerprint row %d is corrupt: %w", row.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping checks the underlying database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", fraud.ErrStoreUnavailable, err)
	}
	return nil
}

func (m FingerprintModel) toRecord() (fraud.FingerprintRecord, error) {
	phash, err := parseBits(m.PHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	dhash, err := parseBits(m.DHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	ahash, err := parseBits(m.AHash)
	if err != nil {
		return fraud.FingerprintRecord{}, err
	}
	return fraud.FingerprintRecord{
		ClaimID:     m.ClaimID,
		Fingerprint: fraud.Fingerprint{PHash: phash, DHash: dhash, AHash: ahash},
		RecordedAt:  m.RecordedAt,
	}, nil
}

// formatBits renders a hash as the 64-character bit string Postgres
// expects for a BIT(64) column.
func formatBits(h uint64) string {
	return fmt.Sprintf("%064b", h)
}

func parseBits(s string) (uint64, error) {
	var h uint64
	if len(s) != 64 {
		return 0, fmt.Errorf("expected 64-bit string, got %d chars", len(s))
	}
	for _, c := range s {
		h <<= 1
		switch c {
		case '1':
			h |= 1
		case '0':
		default:
			return 0, fmt.Errorf("invalid bit character %q", c)
		}
	}
	return h, nil
}
