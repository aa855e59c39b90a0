package store

import (
	"encoding/json"

	"github.com/seansissman/streak-club/internal/models"
)

// ConfigStore persists per-community challenge configuration.
type ConfigStore struct {
	redis *RedisStore
}

func NewConfigStore(redis *RedisStore) *ConfigStore {
	return &ConfigStore{redis: redis}
}

// Get returns the stored config, or nil when the community has none yet.
func (cs *ConfigStore) Get(communityID string) (*models.ChallengeConfig, error) {
	fields, err := cs.redis.HGetAll(configKey(communityID))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	cfg := configFromFields(fields)
	return &cfg, nil
}

func (cs *ConfigStore) Put(communityID string, cfg models.ChallengeConfig) error {
	return cs.redis.HSet(configKey(communityID), configToFields(cfg))
}

func configToFields(cfg models.ChallengeConfig) map[string]interface{} {
	thresholds, err := json.Marshal(cfg.BadgeThresholds)
	if err != nil {
		thresholds = []byte("[]")
	}
	return map[string]interface{}{
		"templateId":      cfg.TemplateID,
		"title":           cfg.Title,
		"description":     cfg.Description,
		"badgeThresholds": string(thresholds),
		"activePostId":    cfg.ActivePostID,
		"createdAt":       cfg.CreatedAtMs,
		"updatedAt":       cfg.UpdatedAtMs,
	}
}

// configFromFields fills any missing field from the record's own template, so
// configs written before a field existed still deserialize to a full shape.
func configFromFields(fields map[string]string) models.ChallengeConfig {
	templateID := fieldString(fields, "templateId", models.DefaultTemplateID)
	tpl := models.TemplateByID(templateID)

	cfg := models.ChallengeConfig{
		TemplateID:   templateID,
		Title:        fieldString(fields, "title", tpl.Title),
		Description:  fieldString(fields, "description", tpl.Description),
		ActivePostID: fields["activePostId"],
		CreatedAtMs:  fieldInt64(fields, "createdAt", 0),
		UpdatedAtMs:  fieldInt64(fields, "updatedAt", 0),
	}
	cfg.BadgeThresholds = append([]int(nil), tpl.BadgeThresholds...)
	if raw, ok := fields["badgeThresholds"]; ok && raw != "" {
		var thresholds []int
		if err := json.Unmarshal([]byte(raw), &thresholds); err == nil && len(thresholds) > 0 {
			cfg.BadgeThresholds = thresholds
		}
	}
	return cfg
}
