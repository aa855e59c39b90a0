package store

import "github.com/seansissman/streak-club/internal/models"

// StatsStore maintains the community-wide aggregate counters. Increments go
// through HIncrBy so concurrent check-ins never lose updates; the today
// counter is additionally overwritten from the day-membership set size, which
// is the ground truth, so drift from partial failures self-corrects.
type StatsStore struct {
	redis *RedisStore
}

func NewStatsStore(redis *RedisStore) *StatsStore {
	return &StatsStore{redis: redis}
}

// Get returns the stats record, normalized for the given day. A community
// with no record yet reads as empty stats for that day.
func (st *StatsStore) Get(communityID string, day int64) (models.AggregateStats, error) {
	fields, err := st.redis.HGetAll(statsKey(communityID))
	if err != nil {
		return models.AggregateStats{}, err
	}
	stats := models.AggregateStats{
		LastStatsDay:         fieldInt64(fields, "lastStatsDay", day),
		ParticipantsTotal:    fieldInt64(fields, "participantsTotal", 0),
		CheckinsToday:        fieldInt64(fields, "checkinsToday", 0),
		CheckinsAllTime:      fieldInt64(fields, "checkinsAllTime", 0),
		LongestStreakAllTime: fieldInt(fields, "longestStreakAllTime", 0),
	}
	stats.NormalizeForDay(day)
	return stats, nil
}

// IncrParticipants counts a first-ever join for this generation.
func (st *StatsStore) IncrParticipants(communityID string) error {
	_, err := st.redis.HIncrBy(statsKey(communityID), "participantsTotal", 1)
	return err
}

// RecordCheckin applies one check-in to the counters. wasNewToday comes from
// the day-membership set add; only new adds count. todaySetSize is the
// authoritative membership-set cardinality and overwrites the raw counter.
func (st *StatsStore) RecordCheckin(communityID string, day int64, wasNewToday bool, todaySetSize int64, bestStreakCandidate int) error {
	key := statsKey(communityID)

	stats, err := st.Get(communityID, day)
	if err != nil {
		return err
	}

	if wasNewToday {
		if _, err := st.redis.HIncrBy(key, "checkinsAllTime", 1); err != nil {
			return err
		}
	}

	fields := map[string]interface{}{
		"lastStatsDay":  day,
		"checkinsToday": todaySetSize,
	}
	if bestStreakCandidate > stats.LongestStreakAllTime {
		fields["longestStreakAllTime"] = bestStreakCandidate
	}
	return st.redis.HSet(key, fields)
}

// Repair forces checkinsToday to the membership-set size for the day,
// returning the counter before and after for audit.
func (st *StatsStore) Repair(communityID string, day int64, actualTodaySize int64) (before, after int64, err error) {
	stats, err := st.Get(communityID, day)
	if err != nil {
		return 0, 0, err
	}
	before = stats.CheckinsToday
	err = st.redis.HSet(statsKey(communityID), map[string]interface{}{
		"lastStatsDay":  day,
		"checkinsToday": actualTodaySize,
	})
	if err != nil {
		return 0, 0, err
	}
	return before, actualTodaySize, nil
}

// Reset drops the stats record entirely; the next read starts empty.
func (st *StatsStore) Reset(communityID string) error {
	return st.redis.Del(statsKey(communityID))
}
