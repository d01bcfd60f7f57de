package study

import (
	"testing"
	"time"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

func TestMastery(t *testing.T) {
	tests := []struct {
		score int
		total int
		want  int
	}{
		{7, 10, 70},
		{10, 10, 100},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Mastery(tt.score, tt.total); got != tt.want {
			t.Errorf("Mastery(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestUpdateStreakFirstSession(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	user := models.User{ID: "user-1"}

	updated := UpdateStreak(user, now)

	if updated.Streak != 1 {
		t.Errorf("Streak = %d, want 1", updated.Streak)
	}
	if updated.LastStudyDate != now.UnixMilli() {
		t.Errorf("LastStudyDate = %d, want %d", updated.LastStudyDate, now.UnixMilli())
	}
}

func TestUpdateStreakSameDayUnchanged(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)
	user := models.User{ID: "user-1", Streak: 4, LastStudyDate: morning.UnixMilli()}

	updated := UpdateStreak(user, evening)

	if updated.Streak != 4 {
		t.Errorf("Streak = %d, want 4", updated.Streak)
	}
	if updated.LastStudyDate != morning.UnixMilli() {
		t.Errorf("LastStudyDate changed on same-day session: %d", updated.LastStudyDate)
	}
}

func TestUpdateStreakConsecutiveDay(t *testing.T) {
	yesterday := time.Date(2025, time.March, 9, 23, 50, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 10, 0, 5, 0, 0, time.UTC)
	user := models.User{ID: "user-1", Streak: 4, LastStudyDate: yesterday.UnixMilli()}

	updated := UpdateStreak(user, now)

	if updated.Streak != 5 {
		t.Errorf("Streak = %d, want 5", updated.Streak)
	}
	if updated.LastStudyDate != now.UnixMilli() {
		t.Errorf("LastStudyDate = %d, want %d", updated.LastStudyDate, now.UnixMilli())
	}
}

func TestUpdateStreakGapResets(t *testing.T) {
	threeDaysAgo := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	user := models.User{ID: "user-1", Streak: 9, LastStudyDate: threeDaysAgo.UnixMilli()}

	updated := UpdateStreak(user, now)

	if updated.Streak != 1 {
		t.Errorf("Streak = %d, want 1", updated.Streak)
	}
}

func TestReorderCardsDropsDeleted(t *testing.T) {
	cards := []models.Flashcard{
		{ID: "a", Question: "Q1", Answer: "A1"},
		{ID: "c", Question: "Q3", Answer: "A3"},
	}

	ordered := ReorderCards([]string{"c", "b", "a"}, cards)

	if len(ordered) != 2 {
		t.Fatalf("got %d cards, want 2", len(ordered))
	}
	if ordered[0].ID != "c" || ordered[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [c, a]", ordered[0].ID, ordered[1].ID)
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		index  int
		length int
		want   int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{12, 5, 0},
		{-1, 5, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := ClampIndex(tt.index, tt.length); got != tt.want {
			t.Errorf("ClampIndex(%d, %d) = %d, want %d", tt.index, tt.length, got, tt.want)
		}
	}
}

func TestDistractorsIncludesCorrectAnswer(t *testing.T) {
	cards := []models.Flashcard{
		{ID: "a", Answer: "Paris"},
		{ID: "b", Answer: "London"},
		{ID: "c", Answer: "Berlin"},
		{ID: "d", Answer: "Madrid"},
		{ID: "e", Answer: "Rome"},
	}
	current := cards[0]

	options := Distractors(cards, current)

	if len(options) != 4 {
		t.Fatalf("got %d options, want 4", len(options))
	}
	found := false
	for _, opt := range options {
		if opt == "Paris" {
			found = true
		}
	}
	if !found {
		t.Error("correct answer missing from options")
	}
}

func TestDistractorsDeduplicates(t *testing.T) {
	cards := []models.Flashcard{
		{ID: "a", Answer: "Yes"},
		{ID: "b", Answer: "Yes"},
		{ID: "c", Answer: "Yes"},
	}

	options := Distractors(cards, cards[0])

	if len(options) != 1 {
		t.Fatalf("got %d options, want 1 after de-duplication", len(options))
	}
	if options[0] != "Yes" {
		t.Errorf("options[0] = %q, want %q", options[0], "Yes")
	}
}

func TestDistractorsSingleCard(t *testing.T) {
	cards := []models.Flashcard{{ID: "a", Answer: "Only"}}

	options := Distractors(cards, cards[0])

	if len(options) != 1 || options[0] != "Only" {
		t.Errorf("options = %v, want [Only]", options)
	}
}
