package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"google.golang.org/genai"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/categorization"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/handlers"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/middleware"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/platform/config"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/repositories/database/pgsql"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Startup work happens outside any HTTP request, so attach the base
	// logger to the context services will read it from.
	ctx := middleware.ContextWithLogger(context.Background(), logger)

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	classifier, err := buildClassifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build classification pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(services.ContainerDeps{
		AccountRepo:     repos.AccountRepo,
		TxnRepo:         repos.TransactionRepo,
		CategoryRepo:    repos.CategoryRepo,
		UserRepo:        repos.UserRepo,
		TxManager:       repos.TxManager,
		Classifier:      classifier,
		JWTSecret:       cfg.JWTSecret,
		JWTExpiry:       cfg.JWTExpiryDuration,
		JWTIssuer:       cfg.JWTIssuer,
		DefaultTimezone: cfg.DefaultTimezone,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limit)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(buildRateLimiter(cfg, logger)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildClassifier assembles the cascading categorization pipeline. Without a
// Gemini API key the remote layers are skipped; cache and rules still work.
func buildClassifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*categorization.Pipeline, error) {
	options := []categorization.PipelineOption{}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      cfg.GeminiAPIKey,
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		if err != nil {
			return nil, err
		}
		options = append(options,
			categorization.WithFastPredictor(categorization.NewFastClassifier(client, cfg.GeminiFastModel, cfg.ClassifierTimeout)),
			categorization.WithReasoningPredictor(categorization.NewReasoningClassifier(client, cfg.GeminiDeepModel, cfg.ClassifierTimeout)),
		)
		logger.Info("Remote classification enabled",
			slog.String("fast_model", cfg.GeminiFastModel),
			slog.String("deep_model", cfg.GeminiDeepModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set; classification limited to cache, rules and default")
	}

	return categorization.NewPipeline(cfg.ClassifierCacheSize, options...)
}

func buildRateLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value, defaulting to 60-M", slog.String("value", cfg.RateLimit))
		rate, _ = limiter.NewRateFromFormatted("60-M")
	}
	store := memory.NewStore()
	return limiter.New(store, rate)
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		m.Close()
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
