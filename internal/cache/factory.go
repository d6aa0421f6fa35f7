package cache

import (
	"fmt"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
)

// NewCacheStore selects and constructs the cache backend once at startup.
// An explicit backend in config wins; otherwise development environments get
// the in-memory store and everything else gets SurrealDB.
func NewCacheStore(config *common.Config, logger *common.Logger) (interfaces.CacheStore, error) {
	backend := config.Cache.Backend
	if backend == "" {
		if config.IsDevelopment() {
			backend = "memory"
		} else {
			backend = "surreal"
		}
	}

	switch backend {
	case "memory":
		logger.Info().Msg("Using in-memory cache store")
		return NewMemoryStore(logger), nil
	case "surreal", "surrealdb":
		store, err := NewSurrealStore(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create surreal cache store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}
