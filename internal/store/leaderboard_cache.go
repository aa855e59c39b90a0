package store

import (
	"time"

	"github.com/seansissman/streak-club/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// LeaderboardViewTTL keeps ranked views briefly so hot communities do not
// recompute the join/sort on every request.
const LeaderboardViewTTL = 30 * time.Second

// LeaderboardViewCache caches fully ranked leaderboard pages. Nil-safe: a
// nil cache (Redis unavailable) degrades to always-miss.
type LeaderboardViewCache struct {
	redis *RedisStore
}

func NewLeaderboardViewCache(redis *RedisStore) *LeaderboardViewCache {
	return &LeaderboardViewCache{redis: redis}
}

func (lc *LeaderboardViewCache) Get(communityID string, limit int) ([]models.LeaderboardEntry, bool) {
	if lc == nil || lc.redis == nil {
		return nil, false
	}
	data, err := lc.redis.Get(leaderboardViewKey(communityID, limit))
	if err != nil || data == nil {
		return nil, false
	}
	var entries []models.LeaderboardEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (lc *LeaderboardViewCache) Set(communityID string, limit int, entries []models.LeaderboardEntry) error {
	if lc == nil || lc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}
	return lc.redis.Set(leaderboardViewKey(communityID, limit), data, LeaderboardViewTTL)
}

// Invalidate drops cached views for common page sizes after a state change.
func (lc *LeaderboardViewCache) Invalidate(communityID string) {
	if lc == nil || lc.redis == nil {
		return
	}
	for _, limit := range []int{10, 25, 50, 100} {
		_ = lc.redis.Del(leaderboardViewKey(communityID, limit))
	}
}
