package main

import (
	"log"
	"net/http"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/handlers"
	"clementus360/intent-tracker/intent"
	"clementus360/intent-tracker/jobs"
	"clementus360/intent-tracker/middleware"
	"clementus360/intent-tracker/routes"
	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/supabase"
)

func main() {

	config.LoadEnv()
	config.InitLogger()
	cfg := config.Load()

	modelCfg, err := config.LoadModelConfig()
	if err != nil {
		log.Fatal("Invalid model config: ", err)
	}
	engine, err := intent.NewEngine(modelCfg)
	if err != nil {
		log.Fatal("Failed to build scoring engine: ", err)
	}

	st := pickStore(cfg)
	api := handlers.New(st, cfg, engine)

	mux := http.NewServeMux()
	routes.RegisterAllRoutes(mux, api, cfg.AdminJWTSecret)

	chain := []func(http.Handler) http.Handler{
		middleware.CORS(cfg.CORSOrigins),
		middleware.Logging,
	}
	if cfg.RateLimitEnabled {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware)
	}
	handler := middleware.Chain(chain...)(mux)

	retention, err := jobs.NewRetention(st, cfg.SessionTimeout, cfg.RetentionDays)
	if err != nil {
		log.Fatal("Failed to set up retention jobs: ", err)
	}
	retention.Start()

	config.Logger.Infof("Intent tracker listening on port %s (store=%s, model=%s)",
		cfg.Port, cfg.StoreBackend, engine.Version())
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

// pickStore selects the configured backend, falling back to the in-memory
// store when Supabase credentials are absent.
func pickStore(cfg config.Config) store.Store {
	if cfg.StoreBackend == config.StoreSupabase {
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			config.Logger.Warn("Supabase unavailable, using in-memory store:", err)
			return store.NewMemoryStore()
		}
		config.Logger.Info("Using Supabase store")
		return supabase.NewStore(client)
	}
	config.Logger.Info("Using in-memory store")
	return store.NewMemoryStore()
}
