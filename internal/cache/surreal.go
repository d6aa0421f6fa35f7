package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
)

// Verify interface compliance
var _ interfaces.CacheStore = (*SurrealStore)(nil)

// cacheEntry is the record shape stored in the cache table. Expiry is
// enforced on read; ExpiresAt of zero means no expiry.
type cacheEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// SurrealStore is the networked cache backend shared between instances in
// docker and production environments.
type SurrealStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewSurrealStore connects to SurrealDB, signs in, selects the configured
// namespace/database, and ensures the cache table exists.
func NewSurrealStore(config *common.Config, logger *common.Logger) (*SurrealStore, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Cache.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Cache.Username,
		"pass": config.Cache.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Cache.Namespace, config.Cache.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying non-existent tables
	if _, err := surrealdb.Query[any](ctx, db, "DEFINE TABLE IF NOT EXISTS cache SCHEMALESS", nil); err != nil {
		return nil, fmt.Errorf("failed to define cache table: %w", err)
	}

	logger.Info().
		Str("address", config.Cache.Address).
		Str("namespace", config.Cache.Namespace).
		Str("database", config.Cache.Database).
		Msg("Connected to SurrealDB cache")

	return &SurrealStore{db: db, logger: logger}, nil
}

// Get implements interfaces.CacheStore. Expired entries are deleted on read
// and reported as misses.
func (s *SurrealStore) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := surrealdb.Select[cacheEntry](ctx, s.db, surrealmodels.NewRecordID("cache", key))
	if err != nil {
		return "", false, fmt.Errorf("failed to select cache entry: %w", err)
	}
	if entry == nil || entry.Key == "" {
		return "", false, nil
	}

	if entry.ExpiresAt > 0 && time.Now().Unix() > entry.ExpiresAt {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to evict expired cache entry")
		}
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Set implements interfaces.CacheStore. Writes are retried because the
// SurrealDB websocket occasionally drops a frame under load.
func (s *SurrealStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	entry := cacheEntry{Key: key, Value: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	sql := "UPSERT type::record('cache', $id) CONTENT $entry"
	vars := map[string]any{"id": key, "entry": entry}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]cacheEntry](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to set cache entry after retries: %w", err)
		}
	}
	return nil
}

// Delete implements interfaces.CacheStore.
func (s *SurrealStore) Delete(ctx context.Context, key string) error {
	_, err := surrealdb.Delete[cacheEntry](ctx, s.db, surrealmodels.NewRecordID("cache", key))
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}
