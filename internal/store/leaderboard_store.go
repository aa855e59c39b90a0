package store

// LeaderboardStore maintains the streak-sorted index. The index is best
// effort: it can briefly diverge from user records between two writes, so
// readers must re-check each candidate against the user record.
type LeaderboardStore struct {
	redis *RedisStore
}

func NewLeaderboardStore(redis *RedisStore) *LeaderboardStore {
	return &LeaderboardStore{redis: redis}
}

// Upsert sets the user's score to their current streak.
func (ls *LeaderboardStore) Upsert(communityID string, userID uint, currentStreak int) error {
	return ls.redis.ZAdd(leaderboardKey(communityID), float64(currentStreak), formatUserID(userID))
}

// Remove drops the user from the index. Used when a user goes private.
func (ls *LeaderboardStore) Remove(communityID string, userID uint) error {
	return ls.redis.ZRem(leaderboardKey(communityID), formatUserID(userID))
}

// TopCandidates returns up to count user ids ordered by streak descending.
// Callers over-fetch and re-sort with full tie-break keys.
func (ls *LeaderboardStore) TopCandidates(communityID string, count int) ([]uint, error) {
	members, err := ls.redis.ZRevRange(leaderboardKey(communityID), 0, int64(count)-1)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if id, ok := parseUserID(m); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Reset drops the whole index.
func (ls *LeaderboardStore) Reset(communityID string) error {
	return ls.redis.Del(leaderboardKey(communityID))
}
