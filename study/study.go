// Package study holds the pure bookkeeping functions for study
// sessions: mastery percentages, day streaks, presentation-order
// restoration, and quiz distractors.
package study

import (
	"math"
	"math/rand"
	"time"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

const dayLength = 24 * time.Hour

// Mastery computes the rounded score percentage for a completed
// session. A zero total yields 0.
func Mastery(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// UpdateStreak applies the day-streak transition for a study event at
// now. Same-day re-entry returns the user unchanged, timestamp
// included; every other branch stamps lastStudyDate with now.
func UpdateStreak(user models.User, now time.Time) models.User {
	today := midnight(now)

	if user.LastStudyDate == 0 {
		user.Streak = 1
	} else {
		last := midnight(time.UnixMilli(user.LastStudyDate))
		switch {
		case last.Equal(today):
			// Already studied today.
			return user
		case today.Sub(last) == dayLength:
			user.Streak++
		default:
			user.Streak = 1
		}
	}

	user.LastStudyDate = now.UnixMilli()
	return user
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ReorderCards rebuilds a presentation order from stored card IDs,
// dropping IDs that no longer exist in the authoritative card slice
// and preserving the stored relative order.
func ReorderCards(storedIDs []string, cards []models.Flashcard) []models.Flashcard {
	byID := make(map[string]models.Flashcard, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	ordered := make([]models.Flashcard, 0, len(storedIDs))
	for _, id := range storedIDs {
		if card, ok := byID[id]; ok {
			ordered = append(ordered, card)
		}
	}
	return ordered
}

// ClampIndex resets an out-of-bounds session index to 0 instead of
// failing, covering cards deleted since the snapshot was taken.
func ClampIndex(index, length int) int {
	if index < 0 || index >= length {
		return 0
	}
	return index
}

// Distractors builds a shuffled quiz option list for the current card:
// up to three other answers plus the correct one, de-duplicated.
func Distractors(cards []models.Flashcard, current models.Flashcard) []string {
	var others []string
	for _, card := range cards {
		if card.ID != current.ID {
			others = append(others, card.Answer)
		}
	}
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if len(others) > 3 {
		others = others[:3]
	}

	seen := make(map[string]bool, len(others)+1)
	options := make([]string, 0, len(others)+1)
	for _, answer := range append(others, current.Answer) {
		if !seen[answer] {
			seen[answer] = true
			options = append(options, answer)
		}
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
