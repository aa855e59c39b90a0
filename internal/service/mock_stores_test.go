package service

import (
	"fmt"
	"sort"

	"github.com/seansissman/streak-club/internal/models"
)

// In-memory fakes for the store contracts. They mirror the Redis-backed
// implementations closely enough to exercise the service flows.

func stateKey(communityID string, userID uint) string {
	return fmt.Sprintf("%s:%d", communityID, userID)
}

type mockStateStore struct {
	states map[string]models.UserState
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{states: make(map[string]models.UserState)}
}

func (m *mockStateStore) Get(communityID string, userID uint, generation int64) (*models.UserState, error) {
	st, ok := m.states[stateKey(communityID, userID)]
	if !ok || st.Generation != generation {
		return nil, nil
	}
	copied := st
	copied.Badges = append([]string(nil), st.Badges...)
	return &copied, nil
}

func (m *mockStateStore) Put(communityID string, userID uint, state models.UserState) error {
	m.states[stateKey(communityID, userID)] = state
	return nil
}

type mockConfigStore struct {
	configs map[string]models.ChallengeConfig
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{configs: make(map[string]models.ChallengeConfig)}
}

func (m *mockConfigStore) Get(communityID string) (*models.ChallengeConfig, error) {
	cfg, ok := m.configs[communityID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (m *mockConfigStore) Put(communityID string, cfg models.ChallengeConfig) error {
	m.configs[communityID] = cfg
	return nil
}

type mockStatsStore struct {
	stats map[string]models.AggregateStats
}

func newMockStatsStore() *mockStatsStore {
	return &mockStatsStore{stats: make(map[string]models.AggregateStats)}
}

func (m *mockStatsStore) Get(communityID string, day int64) (models.AggregateStats, error) {
	stats, ok := m.stats[communityID]
	if !ok {
		stats = models.AggregateStats{LastStatsDay: day}
	}
	stats.NormalizeForDay(day)
	return stats, nil
}

func (m *mockStatsStore) IncrParticipants(communityID string) error {
	stats := m.stats[communityID]
	stats.ParticipantsTotal++
	m.stats[communityID] = stats
	return nil
}

func (m *mockStatsStore) RecordCheckin(communityID string, day int64, wasNewToday bool, todaySetSize int64, bestStreakCandidate int) error {
	stats, _ := m.Get(communityID, day)
	if wasNewToday {
		stats.CheckinsAllTime++
	}
	stats.LastStatsDay = day
	stats.CheckinsToday = todaySetSize
	if bestStreakCandidate > stats.LongestStreakAllTime {
		stats.LongestStreakAllTime = bestStreakCandidate
	}
	m.stats[communityID] = stats
	return nil
}

func (m *mockStatsStore) Repair(communityID string, day int64, actualTodaySize int64) (int64, int64, error) {
	stats, _ := m.Get(communityID, day)
	before := stats.CheckinsToday
	stats.LastStatsDay = day
	stats.CheckinsToday = actualTodaySize
	m.stats[communityID] = stats
	return before, actualTodaySize, nil
}

func (m *mockStatsStore) Reset(communityID string) error {
	delete(m.stats, communityID)
	return nil
}

type mockMembershipStore struct {
	sets map[string]map[uint]bool
}

func newMockMembershipStore() *mockMembershipStore {
	return &mockMembershipStore{sets: make(map[string]map[uint]bool)}
}

func (m *mockMembershipStore) dayKey(communityID string, day int64) string {
	return fmt.Sprintf("%s:%d", communityID, day)
}

func (m *mockMembershipStore) Add(communityID string, day int64, userID uint) (bool, error) {
	key := m.dayKey(communityID, day)
	if m.sets[key] == nil {
		m.sets[key] = make(map[uint]bool)
	}
	if m.sets[key][userID] {
		return false, nil
	}
	m.sets[key][userID] = true
	return true, nil
}

func (m *mockMembershipStore) Size(communityID string, day int64) (int64, error) {
	return int64(len(m.sets[m.dayKey(communityID, day)])), nil
}

func (m *mockMembershipStore) Contains(communityID string, day int64, userID uint) (bool, error) {
	return m.sets[m.dayKey(communityID, day)][userID], nil
}

type mockLeaderboardStore struct {
	scores map[string]map[uint]int
}

func newMockLeaderboardStore() *mockLeaderboardStore {
	return &mockLeaderboardStore{scores: make(map[string]map[uint]int)}
}

func (m *mockLeaderboardStore) Upsert(communityID string, userID uint, currentStreak int) error {
	if m.scores[communityID] == nil {
		m.scores[communityID] = make(map[uint]int)
	}
	m.scores[communityID][userID] = currentStreak
	return nil
}

func (m *mockLeaderboardStore) Remove(communityID string, userID uint) error {
	delete(m.scores[communityID], userID)
	return nil
}

func (m *mockLeaderboardStore) TopCandidates(communityID string, count int) ([]uint, error) {
	ids := make([]uint, 0, len(m.scores[communityID]))
	for id := range m.scores[communityID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := m.scores[communityID][ids[i]], m.scores[communityID][ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (m *mockLeaderboardStore) Reset(communityID string) error {
	delete(m.scores, communityID)
	return nil
}

type mockDevSettingsStore struct {
	offsets     map[string]int64
	generations map[string]int64
}

func newMockDevSettingsStore() *mockDevSettingsStore {
	return &mockDevSettingsStore{
		offsets:     make(map[string]int64),
		generations: make(map[string]int64),
	}
}

func (m *mockDevSettingsStore) DevTimeOffsetSeconds(communityID string) (int64, error) {
	return m.offsets[communityID], nil
}

func (m *mockDevSettingsStore) SetDevTimeOffsetSeconds(communityID string, seconds int64) error {
	m.offsets[communityID] = seconds
	return nil
}

func (m *mockDevSettingsStore) Generation(communityID string) (int64, error) {
	return m.generations[communityID], nil
}

func (m *mockDevSettingsStore) BumpGeneration(communityID string) (int64, error) {
	m.generations[communityID]++
	return m.generations[communityID], nil
}

type mockRateLimitStore struct {
	attempts map[string]int64
}

func newMockRateLimitStore() *mockRateLimitStore {
	return &mockRateLimitStore{attempts: make(map[string]int64)}
}

func (m *mockRateLimitStore) key(communityID string, userID uint, field string) string {
	return fmt.Sprintf("%s:%d:%s", communityID, userID, field)
}

func (m *mockRateLimitStore) LastJoinAttemptMs(communityID string, userID uint) (int64, error) {
	return m.attempts[m.key(communityID, userID, "join")], nil
}

func (m *mockRateLimitStore) LastCheckinAttemptMs(communityID string, userID uint) (int64, error) {
	return m.attempts[m.key(communityID, userID, "checkin")], nil
}

func (m *mockRateLimitStore) RecordJoinAttempt(communityID string, userID uint, nowMs int64) error {
	m.attempts[m.key(communityID, userID, "join")] = nowMs
	return nil
}

func (m *mockRateLimitStore) RecordCheckinAttempt(communityID string, userID uint, nowMs int64) error {
	m.attempts[m.key(communityID, userID, "checkin")] = nowMs
	return nil
}

// mockViewCache is a pass-through cache that records invalidations.
type mockViewCache struct {
	invalidations int
}

func (m *mockViewCache) Get(communityID string, limit int) ([]models.LeaderboardEntry, bool) {
	return nil, false
}

func (m *mockViewCache) Set(communityID string, limit int, entries []models.LeaderboardEntry) error {
	return nil
}

func (m *mockViewCache) Invalidate(communityID string) {
	m.invalidations++
}

type mockNameResolver struct {
	users map[uint]models.User
}

func (m *mockNameResolver) FindByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
