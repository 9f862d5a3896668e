package odds

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/provider"
)

// DefaultTTL is the odds/scores freshness window.
const DefaultTTL = time.Hour

// Feed fetches raw data from the odds provider.
type Feed interface {
	FetchOdds(ctx context.Context, sportKey string) ([]provider.Event, error)
	FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]provider.ScoreEvent, error)
}

// SnapshotStore persists one cached payload per key.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (payload json.RawMessage, fetchedAt time.Time, ok bool, err error)
	Set(ctx context.Context, key string, payload json.RawMessage, fetchedAt time.Time) error
}

// Cache serves odds and scores snapshots per sport with a freshness
// window. Reads prefer fresh cached data, refetch when stale, and fall
// back to stale data — flagged, never a hard failure — when the provider
// is unreachable. Concurrent callers may race a refetch; the last write
// wins and that is acceptable.
type Cache struct {
	feed     Feed
	store    SnapshotStore
	ttl      time.Duration
	daysFrom int
	logger   *slog.Logger
	now      func() time.Time
}

// NewCache creates an odds cache. daysFrom bounds how far back the
// scores feed looks.
func NewCache(feed Feed, store SnapshotStore, ttl time.Duration, daysFrom int, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if daysFrom <= 0 {
		daysFrom = 2
	}
	return &Cache{
		feed:     feed,
		store:    store,
		ttl:      ttl,
		daysFrom: daysFrom,
		logger:   logger,
		now:      time.Now,
	}
}

// Odds returns the normalized board legs for a sport. The stale flag is
// set only when expired cached data is served because a refetch failed.
func (c *Cache) Odds(ctx context.Context, sportKey string) ([]domain.Leg, time.Time, bool, error) {
	key := "odds:" + sportKey

	var cached []domain.Leg
	fetchedAt, ok := c.read(ctx, key, &cached)
	if ok && c.fresh(fetchedAt) {
		return cached, fetchedAt, false, nil
	}

	events, err := c.feed.FetchOdds(ctx, sportKey)
	if err != nil {
		if ok {
			c.logger.Warn("odds refetch failed, serving stale cache",
				"sport", sportKey, "fetched_at", fetchedAt, "error", err)
			return cached, fetchedAt, true, nil
		}
		return nil, time.Time{}, false, domain.ErrProviderFetch(sportKey, err)
	}

	legs := Normalize(events)
	now := c.write(ctx, key, legs)
	return legs, now, false, nil
}

// Scores returns the finals snapshot for a sport, keyed by game id.
// Beyond the TTL policy, a stale snapshot whose games are all completed
// is served as-is: finished results cannot change, so refetching would
// only burn provider quota.
func (c *Cache) Scores(ctx context.Context, sportKey string) (map[string]domain.FinalScore, time.Time, bool, error) {
	key := "scores:" + sportKey

	var cached map[string]domain.FinalScore
	fetchedAt, ok := c.read(ctx, key, &cached)
	if ok && (c.fresh(fetchedAt) || allCompleted(cached)) {
		return cached, fetchedAt, false, nil
	}

	events, err := c.feed.FetchScores(ctx, sportKey, c.daysFrom)
	if err != nil {
		if ok {
			c.logger.Warn("scores refetch failed, serving stale cache",
				"sport", sportKey, "fetched_at", fetchedAt, "error", err)
			return cached, fetchedAt, true, nil
		}
		return nil, time.Time{}, false, domain.ErrProviderFetch(sportKey, err)
	}

	games := ScoresFromFeed(events)
	now := c.write(ctx, key, games)
	return games, now, false, nil
}

func (c *Cache) fresh(fetchedAt time.Time) bool {
	return c.now().Sub(fetchedAt) < c.ttl
}

// read loads and decodes a snapshot; any store or decode problem is
// logged and treated as a cache miss.
func (c *Cache) read(ctx context.Context, key string, dst interface{}) (time.Time, bool) {
	payload, fetchedAt, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("snapshot read failed", "key", key, "error", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		c.logger.Warn("snapshot decode failed", "key", key, "error", err)
		return time.Time{}, false
	}
	return fetchedAt, true
}

// write stores a snapshot; a failed cache write is logged, not fatal,
// since the freshly fetched data is already in hand.
func (c *Cache) write(ctx context.Context, key string, value interface{}) time.Time {
	now := c.now()
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("snapshot encode failed", "key", key, "error", err)
		return now
	}
	if err := c.store.Set(ctx, key, payload, now); err != nil {
		c.logger.Warn("snapshot write failed", "key", key, "error", err)
	}
	return now
}

func allCompleted(games map[string]domain.FinalScore) bool {
	if len(games) == 0 {
		return false
	}
	for _, g := range games {
		if !g.Completed {
			return false
		}
	}
	return true
}
