package models

import (
	"testing"
	"time"
)

func TestUserToResponse(t *testing.T) {
	user := &User{
		ID:          1,
		Username:    "john_doe",
		Email:       "john@example.com",
		DisplayName: "John Doe",
		Role:        "user",
		CreatedAt:   time.Now(),
	}

	response := user.ToResponse()
	if response.ID != user.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, user.ID)
	}
	if response.Username != user.Username {
		t.Errorf("ToResponse Username = %q, want %q", response.Username, user.Username)
	}
	if response.DisplayName != user.DisplayName {
		t.Errorf("ToResponse DisplayName = %q, want %q", response.DisplayName, user.DisplayName)
	}
	if user.IsModerator() {
		t.Error("plain user should not be a moderator")
	}
}

func TestNewUserState(t *testing.T) {
	state := NewUserState(12345, PrivacyPrivate, 3)
	if state.JoinedAtMs != 12345 {
		t.Errorf("JoinedAtMs = %d, want 12345", state.JoinedAtMs)
	}
	if state.LastCheckinDay != DayUnset || state.StreakStartDay != DayUnset {
		t.Error("day fields should start unset")
	}
	if state.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", state.CurrentStreak)
	}
	if state.Badges == nil || len(state.Badges) != 0 {
		t.Errorf("Badges = %v, want empty non-nil slice", state.Badges)
	}
	if state.Generation != 3 {
		t.Errorf("Generation = %d, want 3", state.Generation)
	}
	if state.IsPublic() {
		t.Error("private state reported as public")
	}
}

func TestStreakAchievedDay(t *testing.T) {
	state := UserState{CurrentStreak: 5, StreakStartDay: 100, LastCheckinDay: 104}
	if got := state.StreakAchievedDay(); got != 104 {
		t.Errorf("StreakAchievedDay = %d, want 104", got)
	}

	// No trackable streak: fall back to the last check-in day.
	state = UserState{CurrentStreak: 0, StreakStartDay: DayUnset, LastCheckinDay: 90}
	if got := state.StreakAchievedDay(); got != 90 {
		t.Errorf("StreakAchievedDay fallback = %d, want 90", got)
	}

	state = UserState{StreakStartDay: DayUnset, LastCheckinDay: DayUnset}
	if got := state.StreakAchievedDay(); got != DayUnset {
		t.Errorf("StreakAchievedDay fresh = %d, want %d", got, DayUnset)
	}
}

func TestHasBadge(t *testing.T) {
	state := UserState{Badges: []string{"Committed", "Consistent"}}
	if !state.HasBadge("Committed") {
		t.Error("HasBadge(Committed) = false, want true")
	}
	if state.HasBadge("Legend") {
		t.Error("HasBadge(Legend) = true, want false")
	}
}

func TestNormalizeForDayIdempotent(t *testing.T) {
	stats := AggregateStats{
		LastStatsDay:    100,
		CheckinsToday:   7,
		CheckinsAllTime: 50,
	}

	stats.NormalizeForDay(101)
	if stats.CheckinsToday != 0 || stats.LastStatsDay != 101 {
		t.Errorf("after rollover: today=%d lastDay=%d, want 0/101", stats.CheckinsToday, stats.LastStatsDay)
	}
	if stats.CheckinsAllTime != 50 {
		t.Errorf("CheckinsAllTime = %d, want preserved 50", stats.CheckinsAllTime)
	}

	// Normalizing again for the same day changes nothing.
	stats.CheckinsToday = 3
	stats.NormalizeForDay(101)
	if stats.CheckinsToday != 3 || stats.LastStatsDay != 101 {
		t.Errorf("second normalize changed the record: today=%d lastDay=%d", stats.CheckinsToday, stats.LastStatsDay)
	}
}

func TestTemplateByIDFallsBack(t *testing.T) {
	if got := TemplateByID("no-such-template"); got.ID != DefaultTemplateID {
		t.Errorf("unknown template resolved to %q, want default", got.ID)
	}
	if got := TemplateByID("writing"); got.ID != "writing" {
		t.Errorf("TemplateByID(writing).ID = %q", got.ID)
	}
	if IsKnownTemplate("no-such-template") {
		t.Error("unknown template reported as known")
	}
}
