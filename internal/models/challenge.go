package models

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// DayUnset is the sentinel for "no day recorded", both in memory and in the
// stored hash field.
const DayUnset int64 = -1

// UserState is one participant's streak record in a community challenge.
// It is persisted as a Redis hash at user:{community}:{user} and mutated only
// through the streak engine's transition function.
type UserState struct {
	JoinedAtMs     int64    `json:"joined_at_ms"`
	Privacy        string   `json:"privacy"`
	CurrentStreak  int      `json:"current_streak"`
	BestStreak     int      `json:"best_streak"`
	StreakStartDay int64    `json:"streak_start_day"`
	LastCheckinDay int64    `json:"last_checkin_day"`
	FreezeTokens   int      `json:"freeze_tokens"`
	FreezeSaves    int      `json:"freeze_saves"`
	Badges         []string `json:"badges"`
	IsParticipant  bool     `json:"is_participant"`

	// Generation is the community generation the record was written under.
	// Records from an older generation are treated as absent on read.
	Generation int64 `json:"-"`
}

// NewUserState returns a zeroed record for a user who just joined.
func NewUserState(nowMs int64, privacy string, generation int64) UserState {
	return UserState{
		JoinedAtMs:     nowMs,
		Privacy:        privacy,
		StreakStartDay: DayUnset,
		LastCheckinDay: DayUnset,
		Badges:         []string{},
		IsParticipant:  true,
		Generation:     generation,
	}
}

func (s *UserState) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b == name {
			return true
		}
	}
	return false
}

func (s *UserState) IsPublic() bool {
	return s.Privacy != PrivacyPrivate
}

// StreakAchievedDay is the day the current streak reached its present length,
// used as a leaderboard tie-break (earlier achievement ranks higher). Falls
// back to the last check-in day when the start is unknown.
func (s *UserState) StreakAchievedDay() int64 {
	if s.StreakStartDay != DayUnset && s.CurrentStreak > 0 {
		return s.StreakStartDay + int64(s.CurrentStreak) - 1
	}
	return s.LastCheckinDay
}

// ChallengeConfig holds per-community challenge copy and thresholds. Created
// lazily from a template on first access; never deleted.
type ChallengeConfig struct {
	TemplateID      string `json:"template_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	BadgeThresholds []int  `json:"badge_thresholds"`
	ActivePostID    string `json:"active_post_id,omitempty"`
	CreatedAtMs     int64  `json:"created_at_ms"`
	UpdatedAtMs     int64  `json:"updated_at_ms"`
}

// AggregateStats summarizes challenge-wide activity for one community.
// CheckinsToday is only meaningful relative to LastStatsDay.
type AggregateStats struct {
	LastStatsDay         int64 `json:"last_stats_day"`
	ParticipantsTotal    int64 `json:"participants_total"`
	CheckinsToday        int64 `json:"checkins_today"`
	CheckinsAllTime      int64 `json:"checkins_all_time"`
	LongestStreakAllTime int   `json:"longest_streak_all_time"`
}

// NormalizeForDay rolls the today-counter forward when the stats record is
// from an earlier day. Idempotent for the same day.
func (a *AggregateStats) NormalizeForDay(day int64) {
	if a.LastStatsDay != day {
		a.CheckinsToday = 0
		a.LastStatsDay = day
	}
}

// LeaderboardEntry is a derived row, never stored independently.
type LeaderboardEntry struct {
	UserID           uint   `json:"user_id"`
	DisplayName      string `json:"display_name,omitempty"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	StreakAchievedDay int64 `json:"streak_achieved_day"`
	StreakStartDay   int64  `json:"streak_start_day"`
	LastCheckinDay   int64  `json:"last_checkin_day"`
}

// CheckInResult is what the check-in endpoint returns to the client.
type CheckInResult struct {
	State            UserState `json:"state"`
	UsedFreeze       bool      `json:"used_freeze"`
	EarnedFreeze     bool      `json:"earned_freeze"`
	FreezeTokens     int       `json:"freeze_tokens"`
	EarnedBadge      string    `json:"earned_badge,omitempty"`
	SecondsUntilReset int64    `json:"seconds_until_reset"`
}
