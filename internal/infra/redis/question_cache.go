// Package redis provides cache-aside wrappers over an app.Store.
package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"hatrean-quiz-service/internal/app"
	"hatrean-quiz-service/internal/domain"
)

// CachedStore delegates to an inner store, caching category question sets
// and leaderboard snapshots as JSON values with a jittered TTL. Reads of
// sessions, participants, and writes always hit the inner store: sessions
// change status under admin control and writes must land.
type CachedStore struct {
	app.Store
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCachedStore(client *redis.Client, inner app.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:  inner,
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedStore) QuestionsByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	key := "questions:category:" + categoryID

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			return questions, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := c.Store.QuestionsByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		// Empty sets are not cached: the category may be filling up.
		if len(questions) > 0 {
			if raw, err := json.Marshal(questions); err == nil {
				_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
			}
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *CachedStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	key := leaderboardKey(limit)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var entries []domain.LeaderboardEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := c.Store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(entries); err == nil {
		// best-effort snapshot; a short TTL keeps scores fresh enough
		_ = c.client.Set(ctx, key, raw, leaderboardTTL).Err()
	}
	return entries, nil
}

// IncrementUserStats invalidates cached leaderboard snapshots after the
// write so the next read reflects the new totals.
func (c *CachedStore) IncrementUserStats(ctx context.Context, userID string, scoreDelta int) error {
	if err := c.Store.IncrementUserStats(ctx, userID, scoreDelta); err != nil {
		return err
	}
	iter := c.client.Scan(ctx, 0, "leaderboard:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
	return nil
}

const leaderboardTTL = 30 * time.Second

func leaderboardKey(limit int) string {
	return "leaderboard:" + strconv.Itoa(limit)
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
