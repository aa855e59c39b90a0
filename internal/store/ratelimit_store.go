package store

import "time"

const (
	rateLimitFieldJoin    = "lastJoinAttemptMs"
	rateLimitFieldCheckin = "lastCheckinAttemptMs"

	// Attempt records are only read within seconds, no reason to keep them.
	rateLimitTTL = time.Hour
)

// RateLimitStore records when a user last attempted a throttled action.
type RateLimitStore struct {
	redis *RedisStore
}

func NewRateLimitStore(redis *RedisStore) *RateLimitStore {
	return &RateLimitStore{redis: redis}
}

func (rl *RateLimitStore) LastJoinAttemptMs(communityID string, userID uint) (int64, error) {
	return rl.lastAttempt(communityID, userID, rateLimitFieldJoin)
}

func (rl *RateLimitStore) LastCheckinAttemptMs(communityID string, userID uint) (int64, error) {
	return rl.lastAttempt(communityID, userID, rateLimitFieldCheckin)
}

func (rl *RateLimitStore) RecordJoinAttempt(communityID string, userID uint, nowMs int64) error {
	return rl.recordAttempt(communityID, userID, rateLimitFieldJoin, nowMs)
}

func (rl *RateLimitStore) RecordCheckinAttempt(communityID string, userID uint, nowMs int64) error {
	return rl.recordAttempt(communityID, userID, rateLimitFieldCheckin, nowMs)
}

func (rl *RateLimitStore) lastAttempt(communityID string, userID uint, field string) (int64, error) {
	val, err := rl.redis.HGet(rateLimitKey(communityID, userID), field)
	if err != nil || val == "" {
		return 0, err
	}
	return parseInt64Default(val, 0), nil
}

func (rl *RateLimitStore) recordAttempt(communityID string, userID uint, field string, nowMs int64) error {
	key := rateLimitKey(communityID, userID)
	if err := rl.redis.HSet(key, map[string]interface{}{field: nowMs}); err != nil {
		return err
	}
	_ = rl.redis.Expire(key, rateLimitTTL)
	return nil
}
