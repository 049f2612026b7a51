package models

// Suggestion is a proposed decomposition of a goal into milestones and
// optional generated achievements.
type Suggestion struct {
	Milestones   []MilestoneDraft   `json:"milestones" validate:"required,min=1,dive"`
	Achievements []AchievementDraft `json:"achievements" validate:"dive"`
}
