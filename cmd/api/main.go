package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"claim-assessment-engine/internal/application/assess"
	"claim-assessment-engine/internal/domain/claim"
	"claim-assessment-engine/internal/domain/fraud"
	"claim-assessment-engine/internal/infrastructure/cache/redis"
	"claim-assessment-engine/internal/infrastructure/database/postgres"
	"claim-assessment-engine/internal/infrastructure/hashstore"
	"claim-assessment-engine/internal/infrastructure/http/router"
	"claim-assessment-engine/internal/infrastructure/imaging"
	"claim-assessment-engine/internal/infrastructure/registry"
	"claim-assessment-engine/internal/interfaces/http/handler"
	"claim-assessment-engine/internal/pkg/config"
	"claim-assessment-engine/internal/pkg/logger"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	log.Info().Str("version", version).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting claim assessment API")

	// Database connection
	var dbClient *postgres.Client
	var claimRepo claim.Repository

	if cfg.Database.Enabled {
		dbClient, err = postgres.NewClient(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Name,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Database connection failed; using in-memory registry")
			dbClient = nil
		} else {
			log.Info().Str("host", cfg.Database.Host).Int("port", cfg.Database.Port).
				Msg("Connected to PostgreSQL")
			claimRepo, err = postgres.NewClaimRepository(dbClient.DB())
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize claim repository")
			}
		}
	}
	if claimRepo == nil {
		claimRepo = registry.NewMemoryRegistry()
	}

	// Redis connection
	var redisClient *redis.Client
	var reportCache assess.ReportCache

	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Redis connection failed; report caching disabled")
			redisClient = nil
		} else {
			log.Info().Str("host", cfg.Redis.Host).Int("port", cfg.Redis.Port).
				Msg("Connected to Redis")
			reportCache = redis.NewReportCache(redisClient, cfg.Redis.ReportTTL)
		}
	}

	// Fingerprint store backend
	var store fraud.FingerprintStore
	var storeHealth handler.HealthChecker
	if cfg.HashStore.Backend == "postgres" && dbClient != nil {
		pgStore, err := hashstore.NewPostgresStore(dbClient.DB())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize postgres fingerprint store")
		}
		store, storeHealth = pgStore, pgStore
	} else {
		if cfg.HashStore.Backend == "postgres" {
			log.Warn().Msg("Postgres fingerprint store requested without a database; using file store")
		}
		fileStore, err := hashstore.NewFileStore(cfg.HashStore.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.HashStore.Path).
				Msg("Failed to open fingerprint history file")
		}
		store, storeHealth = fileStore, fileStore
	}

	// Fraud service
	fraudService := fraud.NewService(store, imaging.NewHasher())
	if err := fraudService.SetSimilarityThreshold(cfg.Fraud.SimilarityThreshold); err != nil {
		log.Fatal().Err(err).Msg("Invalid similarity threshold")
	}
	if err := fraudService.SetScoreWeights(fraud.ScoreWeights{
		Metadata:    cfg.Fraud.GetMetadataWeight(),
		Duplicate:   cfg.Fraud.GetDuplicateWeight(),
		Consistency: cfg.Fraud.GetConsistencyWeight(),
	}); err != nil {
		log.Fatal().Err(err).Msg("Invalid score weights")
	}

	// Decision engine
	engine := claim.NewEngine()
	thresholds := claim.DefaultThresholds()
	thresholds.FraudHigh = decimalFromFloat(cfg.Decision.RejectFraudScore)
	thresholds.FraudLow = decimalFromFloat(cfg.Decision.ApproveFraudScore)
	thresholds.ConsistencyHigh = decimalFromFloat(cfg.Decision.ApproveConsistency)
	thresholds.ConsistencyLow = decimalFromFloat(cfg.Decision.SevereInconsistency)
	thresholds.MetadataRisk = decimalFromFloat(cfg.Decision.MetadataReviewRisk)
	engine.SetThresholds(thresholds)

	// Use case and handlers
	assessUseCase := assess.NewAssessClaimUseCase(
		fraudService,
		engine,
		claimRepo,
		reportCache,
		cfg.Fraud.AssessmentTimeout,
	)

	claimHandler := handler.NewClaimHandler(assessUseCase, cfg.Server.MaxImageBytes)

	var dbHealthChecker handler.HealthChecker
	var redisHealthChecker handler.HealthChecker
	if dbClient != nil {
		dbHealthChecker = dbClient
	}
	if redisClient != nil {
		redisHealthChecker = redisClient
	}
	healthHandler := handler.NewHealthHandler(version,
		handler.Dependency{Name: "database", Checker: dbHealthChecker},
		handler.Dependency{Name: "redis", Checker: redisHealthChecker},
		handler.Dependency{Name: "fingerprint_store", Checker: storeHealth},
	)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	r := router.NewRouter(claimHandler, healthHandler, metricsPath)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	if dbClient != nil {
		dbClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	log.Info().Msg("Server stopped")
}

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
