package store

import "time"

// MembershipRetention bounds how long a day's check-in set is kept. Losing a
// set outside this window only affects historical repair, never current
// streaks, which live on the user record.
const MembershipRetention = 30 * 24 * time.Hour

// MembershipStore tracks which users checked in on a given day. The set add
// is the idempotence gate for counting: only the first add for a user/day is
// credited toward the aggregate counters.
type MembershipStore struct {
	redis *RedisStore
}

func NewMembershipStore(redis *RedisStore) *MembershipStore {
	return &MembershipStore{redis: redis}
}

// Add records the user in the day's set and reports whether they were not
// already present. Retention is applied opportunistically; an expire failure
// never fails the check-in.
func (ms *MembershipStore) Add(communityID string, day int64, userID uint) (isNew bool, err error) {
	key := todayKey(communityID, day)
	isNew, err = ms.redis.SAddIsNew(key, formatUserID(userID))
	if err != nil {
		return false, err
	}
	_ = ms.redis.Expire(key, MembershipRetention)
	return isNew, nil
}

// Size returns the number of users who checked in on the day.
func (ms *MembershipStore) Size(communityID string, day int64) (int64, error) {
	return ms.redis.SCard(todayKey(communityID, day))
}

// Contains reports whether the user already checked in on the day.
func (ms *MembershipStore) Contains(communityID string, day int64, userID uint) (bool, error) {
	return ms.redis.SIsMember(todayKey(communityID, day), formatUserID(userID))
}
