package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/store"
)

// RecordStore bundles the selected store with the resources it holds.
type RecordStore struct {
	store.RecordStore
	Pool *pgxpool.Pool
}

// Close releases the PostgreSQL pool, if any.
func (s *RecordStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// NewRecordStore builds the record store named by cfg.StoreDriver. rdb may be
// nil, in which case the remote credential is kept in process memory.
func NewRecordStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, log zerolog.Logger) (*RecordStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &RecordStore{RecordStore: store.NewPostgresStore(pool), Pool: pool}, nil

	case config.StoreDriverRemote:
		refresher := store.NewHTTPRefresher(cfg.RemoteAuthBaseURL(), cfg.RemoteTimeout)
		var tokens store.TokenStore
		if rdb != nil {
			ts, err := store.NewRedisTokenStore(ctx, rdb,
				config.CacheKey.RemoteAccessTokenKey(cfg.RemoteProjectID),
				config.CacheKey.RemoteRefreshTokenKey(cfg.RemoteProjectID),
				cfg.RemoteAccessToken, cfg.RemoteRefreshToken, refresher)
			if err != nil {
				return nil, err
			}
			tokens = ts
		} else {
			tokens = store.NewStaticTokenStore(cfg.RemoteAccessToken, cfg.RemoteRefreshToken, refresher)
		}
		log.Info().Str("url", cfg.RemoteBaseURL()).Msg("Using remote record store")
		return &RecordStore{RecordStore: store.NewRemoteStore(cfg.RemoteBaseURL(), cfg.RemoteTimeout, tokens, log)}, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory record store, data is lost on restart")
		return &RecordStore{RecordStore: store.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
