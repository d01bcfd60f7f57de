package models

// UserStats tracks lifetime usage counters for a user.
type UserStats struct {
	FlashcardsGenerated int `json:"flashcardsGenerated"`
	SummariesGenerated  int `json:"summariesGenerated"`
	MindmapsGenerated   int `json:"mindmapsGenerated"`
	TotalScore          int `json:"totalScore"`
}

// Preferences holds per-user display settings, including the custom
// card background images for each side.
type Preferences struct {
	DarkMode             bool     `json:"darkMode"`
	CardBackgroundsFront []string `json:"cardBackgroundsFront"`
	CardBackgroundsBack  []string `json:"cardBackgroundsBack"`
	RandomizeFront       bool     `json:"randomizeFront"`
	RandomizeBack        bool     `json:"randomizeBack"`
	SelectedFrontIndex   int      `json:"selectedFrontIndex"`
	SelectedBackIndex    int      `json:"selectedBackIndex"`
}

// User represents a user in the system
type User struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	IsPremium     bool         `json:"isPremium"`
	Streak        int          `json:"streak"`
	LastStudyDate int64        `json:"lastStudyDate,omitempty"` // unix milliseconds, 0 = never
	Stats         UserStats    `json:"stats"`
	Preferences   *Preferences `json:"preferences,omitempty"`
}
