package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopsmith/storefront/internal/config"
)

// RateLimitRepository throttles login attempts per account.
type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, email string) (allowed bool, remaining int, retryAfter int, err error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
}

func NewRedisClient(cfg *config.RedisConnect) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Connected to redis", slog.String("addr", cfg.Addr))

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

// CheckLoginRateLimit records the attempt and answers whether it is still
// inside the sliding window. Returns remaining attempts when allowed, or
// the seconds to wait when not.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	key := fmt.Sprintf("login_attempts:%s", email)

	now := time.Now().Unix()
	windowStart := now - int64(r.cfg.WindowSize.Seconds())

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	remaining := r.cfg.MaxAttempts - attempts

	if attempts >= r.cfg.MaxAttempts {
		scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{
			Key: key, Start: 0, Stop: 0,
		}).Result()
		if err != nil || len(scores) == 0 {
			return false, 0, int(r.cfg.WindowSize.Seconds()), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		oldest := int64(scores[0].Score)
		retryAfter := max((oldest+int64(r.cfg.WindowSize.Seconds()))-now, 0)

		slog.Warn("Login rate limit exceeded", slog.String("email", email), slog.Int64("attempts", attempts))

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}
