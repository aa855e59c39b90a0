package store

import (
	"fmt"
	"strconv"
)

func configKey(communityID string) string {
	return "config:" + communityID
}

func userKey(communityID string, userID uint) string {
	return fmt.Sprintf("user:%s:%d", communityID, userID)
}

func leaderboardKey(communityID string) string {
	return "leaderboard:" + communityID
}

func statsKey(communityID string) string {
	return "stats:" + communityID
}

func todayKey(communityID string, day int64) string {
	return fmt.Sprintf("today:%s:%d", communityID, day)
}

func devSettingsKey(communityID string) string {
	return "devsettings:" + communityID
}

func rateLimitKey(communityID string, userID uint) string {
	return fmt.Sprintf("ratelimit:%s:%d", communityID, userID)
}

func leaderboardViewKey(communityID string, limit int) string {
	return fmt.Sprintf("lbview:%s:%d", communityID, limit)
}

func formatUserID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func parseUserID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
