package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()

	setDefaults(v, cfg)

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Config file not found is ok - we use defaults and env vars
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("FRAUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	// Server defaults
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.max_image_bytes", cfg.Server.MaxImageBytes)

	// Database defaults
	v.SetDefault("database.enabled", cfg.Database.Enabled)
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.name", cfg.Database.Name)
	v.SetDefault("database.ssl_mode", cfg.Database.SSLMode)

	// Redis defaults
	v.SetDefault("redis.enabled", cfg.Redis.Enabled)
	v.SetDefault("redis.host", cfg.Redis.Host)
	v.SetDefault("redis.port", cfg.Redis.Port)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.report_ttl", cfg.Redis.ReportTTL)

	// Hash store defaults
	v.SetDefault("hash_store.backend", cfg.HashStore.Backend)
	v.SetDefault("hash_store.path", cfg.HashStore.Path)

	// Fraud defaults
	v.SetDefault("fraud.similarity_threshold", cfg.Fraud.SimilarityThreshold)
	v.SetDefault("fraud.metadata_weight", cfg.Fraud.MetadataWeight)
	v.SetDefault("fraud.duplicate_weight", cfg.Fraud.DuplicateWeight)
	v.SetDefault("fraud.consistency_weight", cfg.Fraud.ConsistencyWeight)
	v.SetDefault("fraud.assessment_timeout", cfg.Fraud.AssessmentTimeout)

	// Decision defaults
	v.SetDefault("decision.reject_fraud_score", cfg.Decision.RejectFraudScore)
	v.SetDefault("decision.approve_fraud_score", cfg.Decision.ApproveFraudScore)
	v.SetDefault("decision.approve_consistency", cfg.Decision.ApproveConsistency)
	v.SetDefault("decision.severe_inconsistency", cfg.Decision.SevereInconsistency)
	v.SetDefault("decision.metadata_review_risk", cfg.Decision.MetadataReviewRisk)
}
