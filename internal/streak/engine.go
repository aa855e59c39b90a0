package streak

import (
	"errors"

	"github.com/seansissman/streak-club/internal/models"
)

// ErrAlreadyCheckedIn is returned when the attempted day is at or before the
// last recorded check-in day. Callers gate with CanCheckIn first; the engine
// rejects unconditionally so a race can never rewind a record.
var ErrAlreadyCheckedIn = errors.New("already checked in for this day")

// MaxFreezeTokens is the hard cap on banked freeze tokens.
const MaxFreezeTokens = 2

// FreezeEarnInterval grants a token every time the streak hits a multiple of
// this many consecutive days.
const FreezeEarnInterval = 7

// Milestone badges in ascending streak order. Fixed across all communities;
// config thresholds only affect displayed copy.
var badgeMilestones = []struct {
	Days int
	Name string
}{
	{7, "Committed"},
	{30, "Consistent"},
	{90, "Disciplined"},
	{180, "Unstoppable"},
	{365, "Legend"},
}

// BadgeForStreak returns the badge name earned at exactly the given streak
// length, or "" when the length is not a milestone.
func BadgeForStreak(days int) string {
	for _, m := range badgeMilestones {
		if m.Days == days {
			return m.Name
		}
	}
	return ""
}

// Meta describes what a single check-in did beyond advancing the streak.
type Meta struct {
	UsedFreeze   bool
	EarnedFreeze bool
	TokenCount   int
	EarnedBadge  string
}

// CanCheckIn reports whether a check-in for day would be accepted.
func CanCheckIn(state models.UserState, day int64) bool {
	return state.LastCheckinDay == models.DayUnset || day > state.LastCheckinDay
}

// ApplyCheckIn computes the next user state for a check-in on the given day.
// Pure: the input state is not mutated and no I/O happens here; persisting
// the result is the caller's job.
//
// A gap of exactly one missed day (day - last == 2) is forgiven when a freeze
// token is banked; longer gaps always break the streak and leave tokens
// untouched.
func ApplyCheckIn(state models.UserState, day int64) (models.UserState, Meta, error) {
	if !CanCheckIn(state, day) {
		return state, Meta{}, ErrAlreadyCheckedIn
	}

	next := state
	next.Badges = append([]string(nil), state.Badges...)
	meta := Meta{}

	missedDays := int64(0)
	if state.LastCheckinDay != models.DayUnset {
		missedDays = day - state.LastCheckinDay
	}

	if missedDays == 2 && next.FreezeTokens > 0 {
		next.FreezeTokens--
		next.FreezeSaves++
		meta.UsedFreeze = true
	}

	trackable := state.StreakStartDay != models.DayUnset && state.CurrentStreak > 0
	if trackable && (missedDays == 1 || meta.UsedFreeze) {
		next.CurrentStreak = state.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
		next.StreakStartDay = day
	}

	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}

	if next.CurrentStreak%FreezeEarnInterval == 0 && next.FreezeTokens < MaxFreezeTokens {
		next.FreezeTokens++
		meta.EarnedFreeze = true
	}

	if badge := BadgeForStreak(next.CurrentStreak); badge != "" && !next.HasBadge(badge) {
		next.Badges = append(next.Badges, badge)
		meta.EarnedBadge = badge
	}

	next.LastCheckinDay = day
	meta.TokenCount = next.FreezeTokens
	return next, meta, nil
}
