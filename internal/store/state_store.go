package store

import (
	"encoding/json"
	"strconv"

	"github.com/seansissman/streak-club/internal/models"
)

// StateStore persists per-participant streak records as Redis hashes. Records
// are tagged with the community generation; a tag older than the current
// generation means the record was fenced out by a reset and reads as absent.
type StateStore struct {
	redis *RedisStore
}

func NewStateStore(redis *RedisStore) *StateStore {
	return &StateStore{redis: redis}
}

// Get returns the user's record, or nil when it does not exist or belongs to
// a previous generation.
func (ss *StateStore) Get(communityID string, userID uint, generation int64) (*models.UserState, error) {
	fields, err := ss.redis.HGetAll(userKey(communityID, userID))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	state := userStateFromFields(fields)
	if state.Generation != generation {
		return nil, nil
	}
	return &state, nil
}

// Put writes the record tagged with the generation carried on the state.
func (ss *StateStore) Put(communityID string, userID uint, state models.UserState) error {
	return ss.redis.HSet(userKey(communityID, userID), userStateToFields(state))
}

func userStateToFields(s models.UserState) map[string]interface{} {
	badges, err := json.Marshal(s.Badges)
	if err != nil {
		badges = []byte("[]")
	}
	return map[string]interface{}{
		"joinedAt":          s.JoinedAtMs,
		"privacy":           s.Privacy,
		"currentStreak":     s.CurrentStreak,
		"bestStreak":        s.BestStreak,
		"streakStartDayUTC": s.StreakStartDay,
		"lastCheckinDayUTC": s.LastCheckinDay,
		"freezeTokens":      s.FreezeTokens,
		"freezeSaves":       s.FreezeSaves,
		"badges":            string(badges),
		"isParticipant":     boolField(s.IsParticipant),
		"stateGeneration":   s.Generation,
	}
}

// userStateFromFields deserializes a stored hash. Records written by older
// schema versions may lack newer fields, so every field falls back to a safe
// default instead of assuming presence.
func userStateFromFields(fields map[string]string) models.UserState {
	s := models.UserState{
		JoinedAtMs:     fieldInt64(fields, "joinedAt", 0),
		Privacy:        fieldString(fields, "privacy", models.PrivacyPublic),
		CurrentStreak:  fieldInt(fields, "currentStreak", 0),
		BestStreak:     fieldInt(fields, "bestStreak", 0),
		StreakStartDay: fieldInt64(fields, "streakStartDayUTC", models.DayUnset),
		LastCheckinDay: fieldInt64(fields, "lastCheckinDayUTC", models.DayUnset),
		FreezeTokens:   fieldInt(fields, "freezeTokens", 0),
		FreezeSaves:    fieldInt(fields, "freezeSaves", 0),
		IsParticipant:  fields["isParticipant"] == "1",
		Generation:     fieldInt64(fields, "stateGeneration", 0),
	}
	s.Badges = []string{}
	if raw, ok := fields["badges"]; ok && raw != "" {
		var badges []string
		if err := json.Unmarshal([]byte(raw), &badges); err == nil && badges != nil {
			s.Badges = badges
		}
	}
	return s
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func fieldString(fields map[string]string, name, fallback string) string {
	if v, ok := fields[name]; ok && v != "" {
		return v
	}
	return fallback
}

func fieldInt(fields map[string]string, name string, fallback int) int {
	if v, ok := fields[name]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func fieldInt64(fields map[string]string, name string, fallback int64) int64 {
	if v, ok := fields[name]; ok {
		return parseInt64Default(v, fallback)
	}
	return fallback
}

func parseInt64Default(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
