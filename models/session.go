package models

// StudyMode selects how a session presents cards.
type StudyMode string

const (
	ModeFlashcards StudyMode = "flashcards"
	ModeQuiz       StudyMode = "quiz"
	ModeExam       StudyMode = "exam"
)

// SessionProgress is a resumable checkpoint of an in-progress study
// session for one set. ShuffledCardIDs captures the presentation order
// so shuffles survive a reload.
type SessionProgress struct {
	SetID           string    `json:"setId"`
	CurrentIndex    int       `json:"currentIndex"`
	IsFlipped       bool      `json:"isFlipped"`
	Mode            StudyMode `json:"mode"`
	ShuffledCardIDs []string  `json:"shuffledCardIds,omitempty"`
	Timestamp       int64     `json:"timestamp"`
}

// GenerationOptions tunes an AI flashcard generation request.
type GenerationOptions struct {
	Difficulty   string `json:"difficulty"`   // easy | medium | hard
	CardCount    int    `json:"cardCount"`    // 10 | 15 | 20
	AnswerLength string `json:"answerLength"` // short | medium | long
}
