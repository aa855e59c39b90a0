package streak

import (
	"errors"
	"testing"

	"github.com/seansissman/streak-club/internal/models"
)

func freshState(day int64) models.UserState {
	return models.NewUserState(day*86_400_000, models.PrivacyPublic, 0)
}

func mustCheckIn(t *testing.T, state models.UserState, day int64) (models.UserState, Meta) {
	t.Helper()
	next, meta, err := ApplyCheckIn(state, day)
	if err != nil {
		t.Fatalf("ApplyCheckIn(day=%d) unexpected error: %v", day, err)
	}
	return next, meta
}

func TestFirstCheckInStartsStreak(t *testing.T) {
	state, meta := mustCheckIn(t, freshState(100), 100)

	if state.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", state.CurrentStreak)
	}
	if state.BestStreak != 1 {
		t.Errorf("BestStreak = %d, want 1", state.BestStreak)
	}
	if state.StreakStartDay != 100 {
		t.Errorf("StreakStartDay = %d, want 100", state.StreakStartDay)
	}
	if state.LastCheckinDay != 100 {
		t.Errorf("LastCheckinDay = %d, want 100", state.LastCheckinDay)
	}
	if meta.UsedFreeze || meta.EarnedFreeze || meta.EarnedBadge != "" {
		t.Errorf("unexpected meta on first check-in: %+v", meta)
	}
}

func TestSameDayResubmissionRejected(t *testing.T) {
	state, _ := mustCheckIn(t, freshState(100), 100)

	if CanCheckIn(state, 100) {
		t.Error("CanCheckIn should be false for the same day")
	}
	_, _, err := ApplyCheckIn(state, 100)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("ApplyCheckIn same day error = %v, want ErrAlreadyCheckedIn", err)
	}

	// A day at or before the last recorded one is always rejected.
	_, _, err = ApplyCheckIn(state, 99)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("ApplyCheckIn earlier day error = %v, want ErrAlreadyCheckedIn", err)
	}
}

func TestConsecutiveDaysExtendStreak(t *testing.T) {
	state, _ := mustCheckIn(t, freshState(100), 100)
	for day := int64(101); day <= 105; day++ {
		prev := state.CurrentStreak
		state, _ = mustCheckIn(t, state, day)
		if state.CurrentStreak != prev+1 {
			t.Fatalf("day %d: CurrentStreak = %d, want %d", day, state.CurrentStreak, prev+1)
		}
		if state.StreakStartDay != 100 {
			t.Fatalf("day %d: StreakStartDay = %d, want unchanged 100", day, state.StreakStartDay)
		}
	}
}

func TestTwoDayGapWithoutTokenBreaksStreak(t *testing.T) {
	state, _ := mustCheckIn(t, freshState(100), 100)
	state, _ = mustCheckIn(t, state, 101)

	// Skips days 102 and 103 with no tokens banked.
	state, meta := mustCheckIn(t, state, 104)
	if state.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after break", state.CurrentStreak)
	}
	if state.StreakStartDay != 104 {
		t.Errorf("StreakStartDay = %d, want 104", state.StreakStartDay)
	}
	if meta.UsedFreeze {
		t.Error("UsedFreeze should be false with no tokens")
	}
	if state.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2 preserved", state.BestStreak)
	}
}

func TestFreezeTokenSavesOneMissedDay(t *testing.T) {
	state, _ := mustCheckIn(t, freshState(100), 100)
	state, _ = mustCheckIn(t, state, 101)
	state.FreezeTokens = 1

	// Day 102 missed; a 2-day gap consumes the token and continues.
	state, meta := mustCheckIn(t, state, 103)
	if !meta.UsedFreeze {
		t.Error("UsedFreeze should be true")
	}
	if state.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", state.CurrentStreak)
	}
	if state.StreakStartDay != 100 {
		t.Errorf("StreakStartDay = %d, want unchanged 100", state.StreakStartDay)
	}
	if state.FreezeTokens != 0 {
		t.Errorf("FreezeTokens = %d, want 0", state.FreezeTokens)
	}
	if state.FreezeSaves != 1 {
		t.Errorf("FreezeSaves = %d, want 1", state.FreezeSaves)
	}
}

func TestThreeDayGapBreaksRegardlessOfTokens(t *testing.T) {
	state, _ := mustCheckIn(t, freshState(100), 100)
	state.FreezeTokens = 2

	state, meta := mustCheckIn(t, state, 103)
	if meta.UsedFreeze {
		t.Error("freeze must not fire on a 3-day gap")
	}
	if state.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", state.CurrentStreak)
	}
	if state.FreezeTokens != 2 {
		t.Errorf("FreezeTokens = %d, want 2 (neither consumed nor lost)", state.FreezeTokens)
	}
}

func TestFreezeEarnedEverySeventhDayCapTwo(t *testing.T) {
	state := freshState(0)
	var meta Meta
	for day := int64(0); day < 21; day++ {
		state, meta = mustCheckIn(t, state, day)
		switch state.CurrentStreak {
		case 7, 14:
			if !meta.EarnedFreeze {
				t.Errorf("streak %d: EarnedFreeze should be true", state.CurrentStreak)
			}
		case 21:
			// Already at the cap of 2.
			if meta.EarnedFreeze {
				t.Error("streak 21: EarnedFreeze should be false at cap")
			}
		default:
			if meta.EarnedFreeze {
				t.Errorf("streak %d: unexpected EarnedFreeze", state.CurrentStreak)
			}
		}
	}
	if state.FreezeTokens != MaxFreezeTokens {
		t.Errorf("FreezeTokens = %d, want cap %d", state.FreezeTokens, MaxFreezeTokens)
	}
}

func TestFreezeConsumeAndEarnSameCheckIn(t *testing.T) {
	// Streak of 6, one token banked, day 7 of the streak missed: the freeze
	// save lands the streak exactly on 7, earning a new token back.
	state := freshState(0)
	for day := int64(0); day < 6; day++ {
		state, _ = mustCheckIn(t, state, day)
	}
	state.FreezeTokens = 1

	state, meta := mustCheckIn(t, state, 7)
	if !meta.UsedFreeze {
		t.Error("UsedFreeze should be true")
	}
	if !meta.EarnedFreeze {
		t.Error("EarnedFreeze should be true")
	}
	if state.CurrentStreak != 7 {
		t.Errorf("CurrentStreak = %d, want 7", state.CurrentStreak)
	}
	if state.FreezeTokens != 1 {
		t.Errorf("FreezeTokens = %d, want 1 (consumed one, earned one)", state.FreezeTokens)
	}
	if meta.TokenCount != 1 {
		t.Errorf("TokenCount = %d, want 1", meta.TokenCount)
	}
}

func TestBadgeMilestones(t *testing.T) {
	tests := []struct {
		streak int
		badge  string
	}{
		{7, "Committed"},
		{30, "Consistent"},
		{90, "Disciplined"},
		{180, "Unstoppable"},
		{365, "Legend"},
		{8, ""},
		{31, ""},
	}
	for _, tt := range tests {
		if got := BadgeForStreak(tt.streak); got != tt.badge {
			t.Errorf("BadgeForStreak(%d) = %q, want %q", tt.streak, got, tt.badge)
		}
	}
}

func TestSevenConsecutiveDaysEarnCommittedOnce(t *testing.T) {
	state := freshState(0)
	var meta Meta
	for day := int64(0); day < 7; day++ {
		state, meta = mustCheckIn(t, state, day)
	}

	if state.CurrentStreak != 7 {
		t.Fatalf("CurrentStreak = %d, want 7", state.CurrentStreak)
	}
	if meta.EarnedBadge != "Committed" {
		t.Errorf("EarnedBadge = %q, want Committed", meta.EarnedBadge)
	}
	if len(state.Badges) != 1 || state.Badges[0] != "Committed" {
		t.Errorf("Badges = %v, want [Committed]", state.Badges)
	}
	if state.FreezeTokens != 1 {
		t.Errorf("FreezeTokens = %d, want 1", state.FreezeTokens)
	}
}

func TestBadgesAreMonotonicAndOrdered(t *testing.T) {
	state := freshState(0)
	for day := int64(0); day < 30; day++ {
		state, _ = mustCheckIn(t, state, day)
	}

	want := []string{"Committed", "Consistent"}
	if len(state.Badges) != len(want) {
		t.Fatalf("Badges = %v, want %v", state.Badges, want)
	}
	for i, b := range want {
		if state.Badges[i] != b {
			t.Errorf("Badges[%d] = %q, want %q", i, state.Badges[i], b)
		}
	}

	// Breaking and rebuilding past 7 must not duplicate Committed.
	state, _ = mustCheckIn(t, state, 40)
	for day := int64(41); day < 47; day++ {
		state, _ = mustCheckIn(t, state, day)
	}
	if state.CurrentStreak != 7 {
		t.Fatalf("CurrentStreak = %d, want 7 after rebuild", state.CurrentStreak)
	}
	count := 0
	for _, b := range state.Badges {
		if b == "Committed" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Committed appears %d times, want exactly 1", count)
	}
}

func TestBestStreakNonDecreasing(t *testing.T) {
	state := freshState(0)
	days := []int64{0, 1, 2, 3, 10, 11, 20, 21, 22, 23, 24}
	best := 0
	for _, day := range days {
		state, _ = mustCheckIn(t, state, day)
		if state.BestStreak < best {
			t.Fatalf("day %d: BestStreak decreased from %d to %d", day, best, state.BestStreak)
		}
		if state.BestStreak < state.CurrentStreak {
			t.Fatalf("day %d: BestStreak %d < CurrentStreak %d", day, state.BestStreak, state.CurrentStreak)
		}
		best = state.BestStreak
	}
	if best != 5 {
		t.Errorf("final BestStreak = %d, want 5", best)
	}
}

func TestApplyCheckInDoesNotMutateInput(t *testing.T) {
	state := freshState(0)
	state, _ = mustCheckIn(t, state, 0)
	before := state
	beforeBadges := append([]string(nil), state.Badges...)

	next, _ := mustCheckIn(t, state, 1)
	if state.CurrentStreak != before.CurrentStreak || state.LastCheckinDay != before.LastCheckinDay {
		t.Error("input state was mutated")
	}
	if len(state.Badges) != len(beforeBadges) {
		t.Error("input badges were mutated")
	}
	if next.CurrentStreak != 2 {
		t.Errorf("next.CurrentStreak = %d, want 2", next.CurrentStreak)
	}
}
