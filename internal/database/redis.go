package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/logger"
)

// NewRedisClient creates and validates a Redis client connection and reports
// how many invitation mails are still waiting from a previous run.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	log = logger.Component(log, "redis")

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opt.ClientName = cfg.AppName

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	pending, err := rdb.LLen(ctx, config.WorkerKey.InvitationMailQueue).Result()
	if err != nil {
		log.Warn().Err(err).Msg("Could not inspect invitation queue")
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Int64("pending_invitations", pending).
		Msg("Redis connected")

	return rdb, nil
}
