// Package handlers implements the HTTP surface of the intent tracker:
// session lifecycle, event ingestion, prediction, privacy, and the
// operator endpoints.
package handlers

import (
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/intent"
	"clementus360/intent-tracker/store"
)

// API carries the dependencies shared by all handlers. The scoring engine
// is swapped atomically on model reload, so request handlers always see a
// consistent policy without locking.
type API struct {
	Store store.Store

	cfg     config.Config
	engine  atomic.Pointer[intent.Engine]
	cache   *cache.Cache
	started time.Time
	served  atomic.Uint64
}

func New(st store.Store, cfg config.Config, engine *intent.Engine) *API {
	api := &API{
		Store:   st,
		cfg:     cfg,
		started: time.Now(),
	}
	if cfg.PredictionCacheTTL > 0 {
		api.cache = cache.New(cfg.PredictionCacheTTL, 2*cfg.PredictionCacheTTL)
	}
	api.engine.Store(engine)
	return api
}

// Engine returns the active scoring engine.
func (a *API) Engine() *intent.Engine {
	return a.engine.Load()
}
