package service

import (
	"strings"

	"github.com/seansissman/streak-club/internal/models"
	"github.com/seansissman/streak-club/internal/validation"
)

// ConfigInput is an administrative config update. Empty title/description
// fall back to the selected template's copy.
type ConfigInput struct {
	TemplateID            string `json:"template_id"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	ActivePostID          string `json:"active_post_id"`
	BadgeThresholds       []int  `json:"badge_thresholds"`
	ConfirmTemplateChange bool   `json:"confirm_template_change"`
}

// EnsureConfig returns the community's config, creating it from the default
// template on first access.
func (s *ChallengeService) EnsureConfig(communityID string) (*models.ChallengeConfig, error) {
	cfg, err := s.configs.Get(communityID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}
	tpl := models.TemplateByID(models.DefaultTemplateID)
	created := models.ChallengeConfig{
		TemplateID:      tpl.ID,
		Title:           tpl.Title,
		Description:     tpl.Description,
		BadgeThresholds: append([]int(nil), tpl.BadgeThresholds...),
		CreatedAtMs:     now.InstantMs,
		UpdatedAtMs:     now.InstantMs,
	}
	if err := s.configs.Put(communityID, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetConfig validates and applies an administrative update. Switching
// templates while participants exist needs ConfirmTemplateChange: the switch
// looks destructive but only rewrites copy and thresholds, so we make the
// caller say so twice rather than silently repainting a live challenge.
func (s *ChallengeService) SetConfig(communityID string, input ConfigInput) (*models.ChallengeConfig, error) {
	current, err := s.EnsureConfig(communityID)
	if err != nil {
		return nil, err
	}

	templateID := input.TemplateID
	if templateID == "" {
		templateID = current.TemplateID
	}
	if !models.IsKnownTemplate(templateID) {
		return nil, &validation.Error{Field: "template_id", Message: "unknown template " + templateID}
	}

	if templateID != current.TemplateID && !input.ConfirmTemplateChange {
		now, err := s.clock.Now(communityID)
		if err != nil {
			return nil, err
		}
		stats, err := s.stats.Get(communityID, now.DayNumber)
		if err != nil {
			return nil, err
		}
		if stats.ParticipantsTotal > 0 {
			return nil, ErrConfirmRequired
		}
	}

	tpl := models.TemplateByID(templateID)
	next := models.ChallengeConfig{
		TemplateID:   templateID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		ActivePostID: input.ActivePostID,
		CreatedAtMs:  current.CreatedAtMs,
	}
	if next.Title == "" {
		next.Title = tpl.Title
	}
	if next.Description == "" {
		next.Description = tpl.Description
	}
	if next.ActivePostID == "" {
		next.ActivePostID = current.ActivePostID
	}
	next.BadgeThresholds = input.BadgeThresholds
	if len(next.BadgeThresholds) == 0 {
		next.BadgeThresholds = append([]int(nil), tpl.BadgeThresholds...)
	}

	if err := validation.ValidateConfig(next); err != nil {
		return nil, err
	}

	now, err := s.clock.Now(communityID)
	if err != nil {
		return nil, err
	}
	next.UpdatedAtMs = now.InstantMs
	if next.CreatedAtMs == 0 {
		next.CreatedAtMs = now.InstantMs
	}

	if err := s.configs.Put(communityID, next); err != nil {
		return nil, err
	}
	return &next, nil
}
