package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seansissman/streak-club/internal/models"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 120
	DescriptionMaxLength = 500
	MaxBadgeThresholds   = 10
	MaxBadgeThreshold    = 365
)

var communityRe = regexp.MustCompile(`^[a-z0-9_-]{2,40}$`)

// Error marks caller-fixable input problems. Nothing is written before one
// of these is raised.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NormalizeCommunityID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func ValidateCommunityID(id string) error {
	if !communityRe.MatchString(id) {
		return errf("community", "must be 2-40 lowercase letters, digits, - or _")
	}
	return nil
}

func ValidatePrivacy(privacy string) error {
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		return errf("privacy", "must be %q or %q", models.PrivacyPublic, models.PrivacyPrivate)
	}
	return nil
}

// ValidateConfig checks an administrative config update before any write.
func ValidateConfig(cfg models.ChallengeConfig) error {
	title := strings.TrimSpace(cfg.Title)
	if len(title) < TitleMinLength || len(title) > TitleMaxLength {
		return errf("title", "must be %d-%d characters", TitleMinLength, TitleMaxLength)
	}
	if len(cfg.Description) > DescriptionMaxLength {
		return errf("description", "must be at most %d characters", DescriptionMaxLength)
	}
	if !models.IsKnownTemplate(cfg.TemplateID) {
		return errf("template_id", "unknown template %q", cfg.TemplateID)
	}
	return ValidateBadgeThresholds(cfg.BadgeThresholds)
}

// ValidateBadgeThresholds requires 1-10 strictly increasing positive day
// counts, each at most a year.
func ValidateBadgeThresholds(thresholds []int) error {
	if len(thresholds) == 0 || len(thresholds) > MaxBadgeThresholds {
		return errf("badge_thresholds", "must have 1-%d entries", MaxBadgeThresholds)
	}
	prev := 0
	for _, t := range thresholds {
		if t <= prev {
			return errf("badge_thresholds", "must be sorted, unique and positive")
		}
		if t > MaxBadgeThreshold {
			return errf("badge_thresholds", "entries must be at most %d", MaxBadgeThreshold)
		}
		prev = t
	}
	return nil
}
