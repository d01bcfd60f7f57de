package models

// Study progression states for a single card.
const (
	CardStatusNew      = "new"
	CardStatusLearning = "learning"
	CardStatusMastered = "mastered"
)

// Flashcard represents an individual flashcard
type Flashcard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
}
