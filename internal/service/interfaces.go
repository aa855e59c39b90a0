package service

import "github.com/seansissman/streak-club/internal/models"

// Store contracts consumed by the challenge service. The concrete
// implementations live in internal/store; tests substitute in-memory fakes.

type StateStoreInterface interface {
	Get(communityID string, userID uint, generation int64) (*models.UserState, error)
	Put(communityID string, userID uint, state models.UserState) error
}

type ConfigStoreInterface interface {
	Get(communityID string) (*models.ChallengeConfig, error)
	Put(communityID string, cfg models.ChallengeConfig) error
}

type StatsStoreInterface interface {
	Get(communityID string, day int64) (models.AggregateStats, error)
	IncrParticipants(communityID string) error
	RecordCheckin(communityID string, day int64, wasNewToday bool, todaySetSize int64, bestStreakCandidate int) error
	Repair(communityID string, day int64, actualTodaySize int64) (before, after int64, err error)
	Reset(communityID string) error
}

type MembershipStoreInterface interface {
	Add(communityID string, day int64, userID uint) (isNew bool, err error)
	Size(communityID string, day int64) (int64, error)
	Contains(communityID string, day int64, userID uint) (bool, error)
}

type LeaderboardStoreInterface interface {
	Upsert(communityID string, userID uint, currentStreak int) error
	Remove(communityID string, userID uint) error
	TopCandidates(communityID string, count int) ([]uint, error)
	Reset(communityID string) error
}

type DevSettingsStoreInterface interface {
	DevTimeOffsetSeconds(communityID string) (int64, error)
	SetDevTimeOffsetSeconds(communityID string, seconds int64) error
	Generation(communityID string) (int64, error)
	BumpGeneration(communityID string) (int64, error)
}

type RateLimitStoreInterface interface {
	LastJoinAttemptMs(communityID string, userID uint) (int64, error)
	LastCheckinAttemptMs(communityID string, userID uint) (int64, error)
	RecordJoinAttempt(communityID string, userID uint, nowMs int64) error
	RecordCheckinAttempt(communityID string, userID uint, nowMs int64) error
}

type LeaderboardViewCacheInterface interface {
	Get(communityID string, limit int) ([]models.LeaderboardEntry, bool)
	Set(communityID string, limit int, entries []models.LeaderboardEntry) error
	Invalidate(communityID string)
}

// DisplayNameResolver maps user ids to account records so leaderboard rows
// can carry a name. Backed by the Postgres user repository.
type DisplayNameResolver interface {
	FindByIDs(ids []uint) ([]models.User, error)
}
