package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	if c.Fraud.SimilarityThreshold <= 0 || c.Fraud.SimilarityThreshold >= 1 {
		return errors.New("similarity_threshold must be between 0 and 1 exclusive")
	}

	sum := c.Fraud.GetMetadataWeight().
		Add(c.Fraud.GetDuplicateWeight()).
		Add(c.Fraud.GetConsistencyWeight())
	if !sum.Equal(decimal.NewFromInt(1)) {
		return errors.New("score weights must sum to 1")
	}

	if c.Decision.ApproveFraudScore >= c.Decision.RejectFraudScore {
		return errors.New("approve_fraud_score should be less than reject_fraud_score")
	}

	if c.Decision.SevereInconsistency >= c.Decision.ApproveConsistency {
		return errors.New("severe_inconsistency should be less than approve_consistency")
	}

	switch c.HashStore.Backend {
	case "file", "postgres":
	default:
		return errors.New("hash_store.backend must be file or postgres")
	}
	if c.HashStore.Backend == "file" && c.HashStore.Path == "" {
		return errors.New("hash_store.path is required for the file backend")
	}
	if c.HashStore.Backend == "postgres" && !c.Database.Enabled {
		return errors.New("hash_store.backend postgres requires database.enabled")
	}

	return nil
}
