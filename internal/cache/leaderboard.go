package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"twutter/internal/model"
)

const (
	// AuthorLeaderboardKey is the sorted set of author activity scores
	AuthorLeaderboardKey = "stats:authors"
)

// Leaderboard defines the author activity leaderboard operations.
// Using an interface enables testing with mocks.
type Leaderboard interface {
	// Register adds a username with score 0 unless it is already present.
	Register(ctx context.Context, username string) error

	// Incr adds delta to a username's score.
	Incr(ctx context.Context, username string, delta int64) error

	// IncrMany applies several increments in one pipeline.
	IncrMany(ctx context.Context, deltas map[string]int64) error

	// Top returns the highest scores, best first.
	Top(ctx context.Context, limit int) ([]model.AuthorScore, error)

	// Score returns a username's score. found=false if it has none.
	Score(ctx context.Context, username string) (score int64, found bool, err error)
}

// RedisLeaderboard implements Leaderboard using a Redis Sorted Set.
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

// NewLeaderboard creates a new Leaderboard backed by Redis.
func NewLeaderboard(client *redis.Client) Leaderboard {
	return &RedisLeaderboard{client: client, key: AuthorLeaderboardKey}
}

func (l *RedisLeaderboard) Register(ctx context.Context, username string) error {
	err := l.client.ZAddNX(ctx, l.key, redis.Z{Score: 0, Member: username}).Err()
	if err != nil {
		log.Printf("[Leaderboard] Register FAILED: user=%s err=%v", username, err)
		return fmt.Errorf("register author: %w", err)
	}
	return nil
}

func (l *RedisLeaderboard) Incr(ctx context.Context, username string, delta int64) error {
	score, err := l.client.ZIncrBy(ctx, l.key, float64(delta), username).Result()
	if err != nil {
		log.Printf("[Leaderboard] Incr FAILED: user=%s delta=%d err=%v", username, delta, err)
		return fmt.Errorf("increment author score: %w", err)
	}

	log.Printf("[Leaderboard] Incr OK: user=%s delta=%d score=%.0f", username, delta, score)
	return nil
}

// IncrMany pipelines one ZINCRBY per author.
func (l *RedisLeaderboard) IncrMany(ctx context.Context, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	startTime := time.Now()
	pipe := l.client.Pipeline()
	for username, delta := range deltas {
		pipe.ZIncrBy(ctx, l.key, float64(delta), username)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Leaderboard] IncrMany FAILED: authors=%d err=%v", len(deltas), err)
		return fmt.Errorf("increment author scores: %w", err)
	}

	log.Printf("[Leaderboard] IncrMany OK: authors=%d duration=%v", len(deltas), time.Since(startTime))
	return nil
}

func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]model.AuthorScore, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[Leaderboard] Top FAILED: limit=%d err=%v", limit, err)
		return nil, fmt.Errorf("get top authors: %w", err)
	}

	authors := make([]model.AuthorScore, 0, len(results))
	for _, z := range results {
		username, ok := z.Member.(string)
		if !ok {
			continue
		}
		authors = append(authors, model.AuthorScore{
			Username: username,
			Score:    int64(z.Score),
		})
	}
	return authors, nil
}

func (l *RedisLeaderboard) Score(ctx context.Context, username string) (int64, bool, error) {
	score, err := l.client.ZScore(ctx, l.key, username).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		log.Printf("[Leaderboard] Score FAILED: user=%s err=%v", username, err)
		return 0, false, fmt.Errorf("get author score: %w", err)
	}
	return int64(score), true, nil
}
