package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipe-importer/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// RedisStore 以 Redis 保存烹飪進度，鍵的 TTL 對齊 expiresAt
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore 連線並測試 Redis
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.KeyPrefix, now: time.Now}, nil
}

func (r *RedisStore) Get(ctx context.Context, recipeID string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(recipeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if s.CheckedIngredients == nil {
		s.CheckedIngredients = map[int]bool{}
	}
	if s.CheckedSteps == nil {
		s.CheckedSteps = map[int]bool{}
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	ttl := ttlUntil(s, r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.RecipeID)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(s.RecipeID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, recipeID string) error {
	if err := r.client.Del(ctx, r.key(recipeID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// key 生成 Redis 鍵
func (r *RedisStore) key(recipeID string) string {
	return r.prefix + recipeID
}

// ttlUntil Redis 的過期精度為毫秒
func ttlUntil(s *Session, now time.Time) time.Duration {
	return s.Expiry().Sub(now).Truncate(time.Millisecond)
}

var _ Store = (*RedisStore)(nil)

// Ping 檢查連線
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
