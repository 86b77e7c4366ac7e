package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"twutter/internal/cache"
)

func setupLeaderboard(t *testing.T) cache.Leaderboard {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewLeaderboard(client)
}

func TestLeaderboard_IncrAndTop(t *testing.T) {
	lb := setupLeaderboard(t)
	ctx := context.Background()

	if err := lb.Incr(ctx, "alice", 2); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if err := lb.IncrMany(ctx, map[string]int64{"bob": 5, "alice": 1, "carol": 1}); err != nil {
		t.Fatalf("IncrMany: %v", err)
	}

	top, err := lb.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Top returned %d entries, want 2", len(top))
	}
	if top[0].Username != "bob" || top[0].Score != 5 {
		t.Errorf("top[0] = %+v, want bob/5", top[0])
	}
	if top[1].Username != "alice" || top[1].Score != 3 {
		t.Errorf("top[1] = %+v, want alice/3", top[1])
	}
}

func TestLeaderboard_RegisterKeepsExistingScore(t *testing.T) {
	lb := setupLeaderboard(t)
	ctx := context.Background()

	if err := lb.Register(ctx, "alice"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	score, found, err := lb.Score(ctx, "alice")
	if err != nil || !found || score != 0 {
		t.Errorf("Score after register = %d, %v, %v", score, found, err)
	}

	_ = lb.Incr(ctx, "alice", 4)
	if err := lb.Register(ctx, "alice"); err != nil {
		t.Fatalf("Register (again): %v", err)
	}
	score, _, _ = lb.Score(ctx, "alice")
	if score != 4 {
		t.Errorf("score = %d, want 4 (register must not reset)", score)
	}
}

func TestLeaderboard_ScoreMissing(t *testing.T) {
	lb := setupLeaderboard(t)

	_, found, err := lb.Score(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if found {
		t.Error("expected not found for unknown author")
	}
}
