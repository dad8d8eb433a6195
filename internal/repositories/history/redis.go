package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// historyKey is the list holding the formatted summaries.
const historyKey = "history:matches"

// Config holds configuration for the Redis history repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using a Redis list.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed history repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Append adds one summary to the end of the log
func (r *redisRepository) Append(ctx context.Context, input *AppendInput) error {
	if input == nil || input.Summary == "" {
		return errors.New("input and summary cannot be empty")
	}

	if err := r.client.RPush(ctx, historyKey, input.Summary).Err(); err != nil {
		return fmt.Errorf("failed to append summary: %w", err)
	}

	return nil
}

// GetAll retrieves every stored summary in insertion order
func (r *redisRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	summaries, err := r.client.LRange(ctx, historyKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return &GetAllOutput{Summaries: summaries}, nil
}
