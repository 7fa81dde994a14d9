package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Classification pipeline
	GeminiAPIKey        string
	GeminiFastModel     string
	GeminiDeepModel     string
	ClassifierTimeout   time.Duration
	ClassifierCacheSize int

	// Rate limit in ulule/limiter notation, e.g. "60-M" for 60 req/minute.
	RateLimit string

	// DefaultTimezone is the IANA zone assumed for users that never set one.
	DefaultTimezone string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "phill-chatbot")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_FAST_MODEL", "gemini-2.5-flash-lite")
	viper.SetDefault("GEMINI_DEEP_MODEL", "gemini-2.5-flash")
	viper.SetDefault("CLASSIFIER_TIMEOUT", "8s")
	viper.SetDefault("CLASSIFIER_CACHE_SIZE", 1000)
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Bogota")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Remote classification will be disabled; rules and cache still apply.")
	}
	cfg.GeminiFastModel = viper.GetString("GEMINI_FAST_MODEL")
	cfg.GeminiDeepModel = viper.GetString("GEMINI_DEEP_MODEL")

	classifierTimeoutStr := viper.GetString("CLASSIFIER_TIMEOUT")
	classifierTimeout, err := time.ParseDuration(classifierTimeoutStr)
	if err != nil {
		classifierTimeout = 8 * time.Second
		log.Printf("Warning: Invalid value for CLASSIFIER_TIMEOUT ('%s'). Defaulting to %s.\n", classifierTimeoutStr, classifierTimeout.String())
	}
	cfg.ClassifierTimeout = classifierTimeout

	cfg.ClassifierCacheSize = viper.GetInt("CLASSIFIER_CACHE_SIZE")
	if cfg.ClassifierCacheSize <= 0 {
		cfg.ClassifierCacheSize = 1000
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.DefaultTimezone = viper.GetString("DEFAULT_TIMEZONE")

	return cfg, nil
}
