package models

// CardSet represents a collection of flashcards
type CardSet struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	CreatedAt         int64        `json:"createdAt"` // unix milliseconds
	Cards             []Flashcard  `json:"cards"`
	MasteryPercentage int          `json:"masteryPercentage"`
	Description       string       `json:"description,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	MindMap           *MindMapData `json:"mindMap,omitempty"`
	Difficulty        string       `json:"difficulty,omitempty"`
}
