package config

import "time"

// Store backend selectors.
const (
	StoreSupabase = "supabase"
	StoreMemory   = "memory"
)

// Config is the server runtime configuration, read once from the
// environment at startup.
type Config struct {
	Port string

	SupabaseURL  string
	SupabaseKey  string
	StoreBackend string

	ModelConfigPath string

	CORSOrigins []string

	RateLimitEnabled   bool
	RateLimitPerMinute int

	PredictionCacheTTL time.Duration
	SessionTimeout     time.Duration
	RetentionDays      int

	AdminJWTSecret string
}

// Load reads the runtime configuration from the environment. The store
// backend defaults to supabase when credentials are present and falls back
// to the in-memory store otherwise.
func Load() Config {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseKey:        getEnv("SUPABASE_KEY", ""),
		StoreBackend:       getEnv("STORE_BACKEND", ""),
		ModelConfigPath:    getEnv("MODEL_CONFIG_PATH", ""),
		CORSOrigins:        getListEnv("CORS_ORIGINS", []string{"*"}),
		RateLimitEnabled:   getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 20),
		PredictionCacheTTL: time.Duration(getIntEnv("PREDICTION_CACHE_TTL", 300)) * time.Second,
		SessionTimeout:     time.Duration(getIntEnv("SESSION_TIMEOUT", 1800)) * time.Second,
		RetentionDays:      getIntEnv("RETENTION_DAYS", 90),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
	}

	if cfg.StoreBackend == "" {
		if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
			cfg.StoreBackend = StoreSupabase
		} else {
			cfg.StoreBackend = StoreMemory
		}
	}
	return cfg
}
