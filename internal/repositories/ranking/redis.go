package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dobble/internal/models"
)

// rankingKey is the sorted set holding name -> win count.
const rankingKey = "ranking:wins"

// Config holds configuration for the Redis ranking repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using a Redis
// sorted set. Ties on win count come back in reverse lexical order,
// which is stable across calls.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed ranking repository
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

// RegisterWin increments a player's win counter
func (r *redisRepository) RegisterWin(ctx context.Context, input *RegisterWinInput) error {
	if input == nil || input.Name == "" {
		return errors.New("input and name cannot be empty")
	}

	if err := r.client.ZIncrBy(ctx, rankingKey, 1, input.Name).Err(); err != nil {
		return fmt.Errorf("failed to register win: %w", err)
	}

	return nil
}

// GetRanking returns all entries ordered by descending win count
func (r *redisRepository) GetRanking(ctx context.Context, input *GetRankingInput) (*GetRankingOutput, error) {
	members, err := r.client.ZRevRangeWithScores(ctx, rankingKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}

	entries := make([]models.RankingEntry, 0, len(members))
	for _, member := range members {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, models.RankingEntry{
			Name: name,
			Wins: int(member.Score),
		})
	}

	return &GetRankingOutput{Entries: entries}, nil
}
