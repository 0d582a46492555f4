package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	HashStore HashStoreConfig `mapstructure:"hash_store"`
	Fraud     FraudConfig     `mapstructure:"fraud"`
	Decision  DecisionConfig  `mapstructure:"decision"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxImageBytes   int64         `mapstructure:"max_image_bytes"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	ReportTTL time.Duration `mapstructure:"report_ttl"`
}

// HashStoreConfig selects the fingerprint history backend
type HashStoreConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "postgres"
	Path    string `mapstructure:"path"`
}

// FraudConfig holds fraud scoring configuration
type FraudConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`

	// Score weights, as decimal strings for YAML compatibility
	MetadataWeight    string `mapstructure:"metadata_weight"`
	DuplicateWeight   string `mapstructure:"duplicate_weight"`
	ConsistencyWeight string `mapstructure:"consistency_weight"`

	AssessmentTimeout time.Duration `mapstructure:"assessment_timeout"`
}

// GetMetadataWeight returns the metadata weight as decimal
func (c *FraudConfig) GetMetadataWeight() decimal.Decimal {
	return parseWeight(c.MetadataWeight, "0.3")
}

// GetDuplicateWeight returns the duplicate weight as decimal
func (c *FraudConfig) GetDuplicateWeight() decimal.Decimal {
	return parseWeight(c.DuplicateWeight, "0.4")
}

// GetConsistencyWeight returns the consistency weight as decimal
func (c *FraudConfig) GetConsistencyWeight() decimal.Decimal {
	return parseWeight(c.ConsistencyWeight, "0.3")
}

func parseWeight(s, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

// DecisionConfig holds decision threshold configuration
type DecisionConfig struct {
	RejectFraudScore    float64 `mapstructure:"reject_fraud_score"`
	ApproveFraudScore   float64 `mapstructure:"approve_fraud_score"`
	ApproveConsistency  float64 `mapstructure:"approve_consistency"`
	SevereInconsistency float64 `mapstructure:"severe_inconsistency"`
	MetadataReviewRisk  float64 `mapstructure:"metadata_review_risk"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxImageBytes:   10 << 20,
		},
		Database: DatabaseConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            5432,
			User:            "claims_user",
			Password:        "",
			Name:            "claim_assessment",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:   false,
			Host:      "localhost",
			Port:      6379,
			Password:  "",
			DB:        0,
			ReportTTL: 15 * time.Minute,
		},
		HashStore: HashStoreConfig{
			Backend: "file",
			Path:    "./data/image_hashes.json",
		},
		Fraud: FraudConfig{
			SimilarityThreshold: 0.90,
			MetadataWeight:      "0.3",
			DuplicateWeight:     "0.4",
			ConsistencyWeight:   "0.3",
			AssessmentTimeout:   10 * time.Second,
		},
		Decision: DecisionConfig{
			RejectFraudScore:    7,
			ApproveFraudScore:   3,
			ApproveConsistency:  7,
			SevereInconsistency: 4,
			MetadataReviewRisk:  5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
