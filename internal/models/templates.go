package models

// ChallengeTemplate seeds a community's config on first access. Changing a
// community's template later only rewrites copy and thresholds; stored streak
// data is untouched.
type ChallengeTemplate struct {
	ID              string
	Title           string
	Description     string
	BadgeThresholds []int
}

const DefaultTemplateID = "daily-checkin"

var challengeTemplates = map[string]ChallengeTemplate{
	"daily-checkin": {
		ID:              "daily-checkin",
		Title:           "Daily Check-In Challenge",
		Description:     "Check in once a day to keep your streak alive. Miss a day and the streak resets, unless a freeze saves you.",
		BadgeThresholds: []int{7, 30, 90, 180, 365},
	},
	"fitness": {
		ID:              "fitness",
		Title:           "Daily Movement Challenge",
		Description:     "Log one workout, walk or stretch session per day.",
		BadgeThresholds: []int{7, 30, 90, 180, 365},
	},
	"writing": {
		ID:              "writing",
		Title:           "Daily Writing Challenge",
		Description:     "Write something every day. Any length counts, showing up is the habit.",
		BadgeThresholds: []int{7, 30, 90},
	},
	"learning": {
		ID:              "learning",
		Title:           "Daily Learning Challenge",
		Description:     "Spend time learning every day and log it here.",
		BadgeThresholds: []int{7, 30, 90, 180},
	},
}

// TemplateByID returns the requested template, falling back to the default
// for unknown ids so legacy configs always deserialize.
func TemplateByID(id string) ChallengeTemplate {
	if t, ok := challengeTemplates[id]; ok {
		return t
	}
	return challengeTemplates[DefaultTemplateID]
}

func IsKnownTemplate(id string) bool {
	_, ok := challengeTemplates[id]
	return ok
}

func TemplateIDs() []string {
	ids := make([]string, 0, len(challengeTemplates))
	for id := range challengeTemplates {
		ids = append(ids, id)
	}
	return ids
}
