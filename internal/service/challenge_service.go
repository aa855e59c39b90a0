package service

import (
	"math"
	"sort"

	"github.com/seansissman/streak-club/internal/clock"
	"github.com/seansissman/streak-club/internal/models"
	"github.com/seansissman/streak-club/internal/ratelimit"
	"github.com/seansissman/streak-club/internal/streak"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ChallengeService coordinates the streak engine with the persistent stores.
// Every operation is a short read-modify-write against per-key primitives;
// there are no cross-key transactions.
type ChallengeService struct {
	clock      *clock.Clock
	states     StateStoreInterface
	configs    ConfigStoreInterface
	stats      StatsStoreInterface
	membership MembershipStoreInterface
	index      LeaderboardStoreInterface
	dev        DevSettingsStoreInterface
	attempts   RateLimitStoreInterface
	views      LeaderboardViewCacheInterface
	names      DisplayNameResolver
}

func NewChallengeService(
	clk *clock.Clock,
	states StateStoreInterface,
	configs ConfigStoreInterface,
	stats StatsStoreInterface,
	membership MembershipStoreInterface,
	index LeaderboardStoreInterface,
	dev DevSettingsStoreInterface,
	attempts RateLimitStoreInterface,
	views LeaderboardViewCacheInterface,
	names DisplayNameResolver,
) *ChallengeService {
	return &ChallengeService{
		clock:      clk,
		states:     states,
		configs:    configs,
		stats:      stats,
		membership: membership,
		index:      index,
		dev:        dev,
		attempts:   attempts,
		views:      views,
		names:      names,
	}
}

// Join registers the user as a participant. Idempotent: an existing record
// is returned unchanged. The participant counter is incremented only when a
// record is created, so a user counts once per generation.
func (s *ChallengeService) Join(communityID string, userID uint, privacy string) (*models.UserState, error) {
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}

	last, err := s.attempts.LastJoinAttemptMs(communityID, userID)
	if err != nil {
		return nil, err
	}
	if ok, retryAfter := ratelimit.Allow(last, now.InstantMs, ratelimit.JoinWindow); !ok {
		return nil, &RateLimitedError{RetryAfter: retryAfter}
	}
	if err := s.attempts.RecordJoinAttempt(communityID, userID, now.InstantMs); err != nil {
		return nil, err
	}

	generation, err := s.dev.Generation(communityID)
	if err != nil {
		return nil, err
	}

	existing, err := s.states.Get(communityID, userID, generation)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	state := models.NewUserState(now.InstantMs, privacy, generation)
	if err := s.states.Put(communityID, userID, state); err != nil {
		return nil, err
	}
	if err := s.stats.IncrParticipants(communityID); err != nil {
		return nil, err
	}
	if state.IsPublic() {
		if err := s.index.Upsert(communityID, userID, 0); err != nil {
			return nil, err
		}
	}
	s.views.Invalidate(communityID)
	return &state, nil
}

// CheckIn records today's check-in for the user. The streak transition is
// computed by the pure engine; this method persists the result, feeds the
// day-membership set (the idempotence gate for counters) and keeps the
// leaderboard index in sync.
func (s *ChallengeService) CheckIn(communityID string, userID uint) (*models.CheckInResult, error) {
	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}

	last, err := s.attempts.LastCheckinAttemptMs(communityID, userID)
	if err != nil {
		return nil, err
	}
	if ok, retryAfter := ratelimit.Allow(last, now.InstantMs, ratelimit.CheckInWindow); !ok {
		return nil, &RateLimitedError{RetryAfter: retryAfter}
	}
	if err := s.attempts.RecordCheckinAttempt(communityID, userID, now.InstantMs); err != nil {
		return nil, err
	}

	generation, err := s.dev.Generation(communityID)
	if err != nil {
		return nil, err
	}

	state, err := s.states.Get(communityID, userID, generation)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNotJoined
	}

	next, meta, err := streak.ApplyCheckIn(*state, now.DayNumber)
	if err != nil {
		return nil, err
	}
	next.Generation = generation
	if err := s.states.Put(communityID, userID, next); err != nil {
		return nil, err
	}

	// The set add decides whether this check-in counts: a duplicate attempt
	// that slipped past the engine gate is a no-op for the counters.
	isNew, err := s.membership.Add(communityID, now.DayNumber, userID)
	if err != nil {
		return nil, err
	}
	todaySize, err := s.membership.Size(communityID, now.DayNumber)
	if err != nil {
		return nil, err
	}
	if err := s.stats.RecordCheckin(communityID, now.DayNumber, isNew, todaySize, next.BestStreak); err != nil {
		return nil, err
	}

	if err := s.syncIndex(communityID, userID, next); err != nil {
		return nil, err
	}
	s.views.Invalidate(communityID)

	return &models.CheckInResult{
		State:             next,
		UsedFreeze:        meta.UsedFreeze,
		EarnedFreeze:      meta.EarnedFreeze,
		FreezeTokens:      meta.TokenCount,
		EarnedBadge:       meta.EarnedBadge,
		SecondsUntilReset: now.SecondsUntilReset,
	}, nil
}

// MeView is the caller's own standing in a community.
type MeView struct {
	Joined            bool               `json:"joined"`
	State             *models.UserState  `json:"state,omitempty"`
	CanCheckIn        bool               `json:"can_check_in"`
	DayNumber         int64              `json:"day_number"`
	SecondsUntilReset int64              `json:"seconds_until_reset"`
}

func (s *ChallengeService) Me(communityID string, userID uint) (*MeView, error) {
	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}
	generation, err := s.dev.Generation(communityID)
	if err != nil {
		return nil, err
	}
	state, err := s.states.Get(communityID, userID, generation)
	if err != nil {
		return nil, err
	}
	view := &MeView{
		DayNumber:         now.DayNumber,
		SecondsUntilReset: now.SecondsUntilReset,
	}
	if state != nil {
		view.Joined = true
		view.State = state
		view.CanCheckIn = streak.CanCheckIn(*state, now.DayNumber)
	}
	return view, nil
}

// SetPrivacy flips the user's visibility and keeps the index consistent:
// private users are removed from the index, not from their own record.
func (s *ChallengeService) SetPrivacy(communityID string, userID uint, privacy string) (*models.UserState, error) {
	generation, err := s.dev.Generation(communityID)
	if err != nil {
		return nil, err
	}
	state, err := s.states.Get(communityID, userID, generation)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNotJoined
	}

	state.Privacy = privacy
	if err := s.states.Put(communityID, userID, *state); err != nil {
		return nil, err
	}
	if err := s.syncIndex(communityID, userID, *state); err != nil {
		return nil, err
	}
	s.views.Invalidate(communityID)
	return state, nil
}

func (s *ChallengeService) syncIndex(communityID string, userID uint, state models.UserState) error {
	if state.IsPublic() {
		return s.index.Upsert(communityID, userID, state.CurrentStreak)
	}
	return s.index.Remove(communityID, userID)
}

// Leaderboard returns the ranked public participants. Candidates come from a
// bounded over-fetch of the streak index and are re-sorted with the full
// tie-break keys; stale index entries and private users are dropped.
func (s *ChallengeService) Leaderboard(communityID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	if entries, ok := s.views.Get(communityID, limit); ok {
		return entries, nil
	}

	generation, err := s.dev.Generation(communityID)
	if err != nil {
		return nil, err
	}

	fetch := limit * 4
	if fetch < 100 {
		fetch = 100
	}
	candidates, err := s.index.TopCandidates(communityID, fetch)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(candidates))
	for _, userID := range candidates {
		state, err := s.states.Get(communityID, userID, generation)
		if err != nil {
			return nil, err
		}
		if state == nil || !state.IsPublic() {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:            userID,
			CurrentStreak:     state.CurrentStreak,
			BestStreak:        state.BestStreak,
			StreakAchievedDay: state.StreakAchievedDay(),
			StreakStartDay:    state.StreakStartDay,
			LastCheckinDay:    state.LastCheckinDay,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if a.BestStreak != b.BestStreak {
			return a.BestStreak > b.BestStreak
		}
		if da, db := achievedOrInf(a.StreakAchievedDay), achievedOrInf(b.StreakAchievedDay); da != db {
			return da < db
		}
		return a.UserID < b.UserID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	s.attachDisplayNames(entries)

	// A failed cache write is not worth failing the read.
	_ = s.views.Set(communityID, limit, entries)
	return entries, nil
}

// achievedOrInf orders users who never achieved a streak after everyone else.
func achievedOrInf(day int64) int64 {
	if day == models.DayUnset {
		return math.MaxInt64
	}
	return day
}

func (s *ChallengeService) attachDisplayNames(entries []models.LeaderboardEntry) {
	if s.names == nil || len(entries) == 0 {
		return
	}
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.names.FindByIDs(ids)
	if err != nil {
		return
	}
	byID := make(map[uint]string, len(users))
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = u.Username
		}
		byID[u.ID] = name
	}
	for i := range entries {
		entries[i].DisplayName = byID[entries[i].UserID]
	}
}

// Stats returns the community counters normalized for the current day.
func (s *ChallengeService) Stats(communityID string) (models.AggregateStats, error) {
	now, err := s.clock.Now(communityID)
	if err != nil {
		return models.AggregateStats{}, err
	}
	return s.stats.Get(communityID, now.DayNumber)
}

// RepairResult reports a drift correction for audit.
type RepairResult struct {
	Day    int64 `json:"day"`
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// RepairStats forces the today-counter back to the membership-set size.
// Participant totals are deliberately left alone; only today's check-in
// count is re-derived from ground truth.
func (s *ChallengeService) RepairStats(communityID string) (*RepairResult, error) {
	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}
	size, err := s.membership.Size(communityID, now.DayNumber)
	if err != nil {
		return nil, err
	}
	before, after, err := s.stats.Repair(communityID, now.DayNumber, size)
	if err != nil {
		return nil, err
	}
	return &RepairResult{Day: now.DayNumber, Before: before, After: after}, nil
}

// Reset wipes a community by advancing the generation. Prior user records
// become invisible without touching their keys; in-flight writes tagged with
// the old generation are fenced out the same way.
func (s *ChallengeService) Reset(communityID string) (int64, error) {
	newGeneration, err := s.dev.BumpGeneration(communityID)
	if err != nil {
		return 0, err
	}
	if err := s.index.Reset(communityID); err != nil {
		return 0, err
	}
	if err := s.stats.Reset(communityID); err != nil {
		return 0, err
	}
	if err := s.dev.SetDevTimeOffsetSeconds(communityID, 0); err != nil {
		return 0, err
	}
	s.views.Invalidate(communityID)
	return newGeneration, nil
}

// SetDevTimeOffset shifts the community's effective clock. Test tooling
// only; it never rewrites stored day numbers, only future reads.
func (s *ChallengeService) SetDevTimeOffset(communityID string, seconds int64) error {
	return s.dev.SetDevTimeOffsetSeconds(communityID, seconds)
}

// Now exposes the community's effective clock snapshot.
func (s *ChallengeService) Now(communityID string) (clock.Snapshot, error) {
	return s.clock.Now(communityID)
}
