package redis_test

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"hatrean-quiz-service/internal/app"
	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/infra/memory"
	redisstore "hatrean-quiz-service/internal/infra/redis"
)

// countingStore counts read traffic reaching the inner store.
type countingStore struct {
	app.Store
	categoryReads    int64
	leaderboardReads int64
}

func (c *countingStore) QuestionsByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	atomic.AddInt64(&c.categoryReads, 1)
	return c.Store.QuestionsByCategory(ctx, categoryID)
}

func (c *countingStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	atomic.AddInt64(&c.leaderboardReads, 1)
	return c.Store.Leaderboard(ctx, limit)
}

func newCachedStore(t *testing.T) (*redisstore.CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := bank.NewWithSource(bank.Catalog(), rand.NewSource(1))
	inner := &countingStore{Store: memory.NewStoreFromBank(b)}
	return redisstore.NewCachedStore(client, inner, time.Minute), inner, mr
}

func categoryID(t *testing.T, store app.Store, name string) string {
	t.Helper()
	categories, err := store.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not seeded", name)
	return ""
}

func TestQuestionsByCategoryCachesSecondRead(t *testing.T) {
	cached, inner, _ := newCachedStore(t)
	ctx := context.Background()
	id := categoryID(t, inner, "Science")

	first, err := cached.QuestionsByCategory(ctx, id)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := cached.QuestionsByCategory(ctx, id)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}
	if got := atomic.LoadInt64(&inner.categoryReads); got != 1 {
		t.Fatalf("expected 1 inner read, got %d", got)
	}
}

func TestQuestionsByCategoryEmptySetNotCached(t *testing.T) {
	cached, inner, mr := newCachedStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		questions, err := cached.QuestionsByCategory(ctx, "unknown-category")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(questions) != 0 {
			t.Fatalf("unexpected questions: %d", len(questions))
		}
	}
	if got := atomic.LoadInt64(&inner.categoryReads); got != 2 {
		t.Fatalf("empty set was cached, inner reads: %d", got)
	}
	if mr.Exists("questions:category:unknown-category") {
		t.Fatalf("empty set stored in redis")
	}
}

func TestLeaderboardCacheInvalidatedOnStatsWrite(t *testing.T) {
	cached, inner, _ := newCachedStore(t)
	ctx := context.Background()

	if err := cached.IncrementUserStats(ctx, "alice", 20); err != nil {
		t.Fatalf("stats write failed: %v", err)
	}

	entries, err := cached.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].TotalScore != 20 {
		t.Fatalf("unexpected leaderboard: %+v", entries)
	}
	if _, err := cached.Leaderboard(ctx, 10); err != nil {
		t.Fatalf("cached leaderboard failed: %v", err)
	}
	if got := atomic.LoadInt64(&inner.leaderboardReads); got != 1 {
		t.Fatalf("expected cached second read, inner reads: %d", got)
	}

	// A stats write drops the snapshot so the next read sees the new total.
	if err := cached.IncrementUserStats(ctx, "alice", 15); err != nil {
		t.Fatalf("stats write failed: %v", err)
	}
	entries, err = cached.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if entries[0].TotalScore != 35 {
		t.Fatalf("stale leaderboard after write: %+v", entries)
	}
	if got := atomic.LoadInt64(&inner.leaderboardReads); got != 2 {
		t.Fatalf("expected fresh read after invalidation, inner reads: %d", got)
	}
}

func TestWritesReachInnerStore(t *testing.T) {
	cached, _, _ := newCachedStore(t)
	ctx := context.Background()

	id, err := cached.SaveAttempt(ctx, domain.QuizAttempt{UserID: "u1", Score: 10})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatalf("no attempt id returned")
	}
}
