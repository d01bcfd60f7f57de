package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
	"github.com/omprakashcoder/flashcardgenerator-v1/study"
	"github.com/omprakashcoder/flashcardgenerator-v1/utils"
)

// GET /api/sets/{setID}/session
//
// Returns the saved snapshot with the presentation order rebuilt
// against the set's current cards. IDs for cards deleted since the
// snapshot are dropped; an index left out of bounds resets to 0.
func (h *Handler) GetSessionProgress(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	progress := h.Store.SessionProgress(setID, userID)
	if progress == nil {
		http.Error(w, "No session in progress", http.StatusNotFound)
		return
	}

	cards := set.Cards
	if len(progress.ShuffledCardIDs) > 0 {
		if ordered := study.ReorderCards(progress.ShuffledCardIDs, set.Cards); len(ordered) > 0 {
			cards = ordered
		}
	}
	progress.CurrentIndex = study.ClampIndex(progress.CurrentIndex, len(cards))
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	progress.ShuffledCardIDs = ids

	response := struct {
		models.SessionProgress
		Cards []models.Flashcard `json:"cards"`
	}{
		SessionProgress: *progress,
		Cards:           cards,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// PUT /api/sets/{setID}/session
//
// Full overwrite of the snapshot; the client calls this on every
// index, flip, or mode change.
func (h *Handler) SaveSessionProgress(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	if _, ok := h.Store.Set(setID, userID); !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	var progress models.SessionProgress
	if err := json.NewDecoder(r.Body).Decode(&progress); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Store.SaveSessionProgress(setID, progress, userID); err != nil {
		log.Printf("SaveSessionProgress: failed for set id=%s: %v", setID, err)
		http.Error(w, "Failed to save session progress", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/sets/{setID}/session
func (h *Handler) ClearSessionProgress(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	if err := h.Store.ClearSessionProgress(setID, userID); err != nil {
		log.Printf("ClearSessionProgress: failed for set id=%s: %v", setID, err)
		http.Error(w, "Failed to clear session progress", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sets/{setID}/complete
//
// Finishes a session. Flashcard and quiz completions write the new
// mastery percentage and always count toward the streak; exam
// completions leave mastery alone and count only above 50 percent.
// The session snapshot never outlives this call.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, authenticated := utils.GetUserID(r)

	var req struct {
		Score int              `json:"score"`
		Total int              `json:"total"`
		Mode  models.StudyMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Score < 0 || req.Total < 0 || req.Score > req.Total {
		http.Error(w, "Score must be between 0 and the total", http.StatusBadRequest)
		return
	}

	if _, ok := h.Store.Set(setID, userID); !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	percentage := study.Mastery(req.Score, req.Total)
	counted := true
	if req.Mode == models.ModeExam {
		counted = percentage > 50
	} else {
		if err := h.Store.UpdateSetMastery(setID, percentage, userID); err != nil {
			log.Printf("CompleteSession: failed to update mastery for set id=%s: %v", setID, err)
			http.Error(w, "Failed to update mastery", http.StatusInternalServerError)
			return
		}
	}

	var user *models.User
	if counted && authenticated {
		if stored := h.Store.User(userID); stored != nil {
			updated := study.UpdateStreak(*stored, time.Now())
			updated.Stats.TotalScore += req.Score
			if err := h.Store.SaveUser(&updated); err != nil {
				log.Printf("CompleteSession: failed to save streak for id=%s: %v", userID, err)
			} else {
				user = &updated
			}
		}
	}

	if err := h.Store.ClearSessionProgress(setID, userID); err != nil {
		log.Printf("CompleteSession: failed to clear session for set id=%s: %v", setID, err)
	}

	response := struct {
		MasteryPercentage int          `json:"masteryPercentage"`
		User              *models.User `json:"user,omitempty"`
	}{
		MasteryPercentage: percentage,
		User:              user,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GET /api/sets/{setID}/quiz
//
// Builds the multiple-choice option lists for quiz and exam modes: up
// to three distractors plus the correct answer per card, shuffled.
func (h *Handler) GetQuizOptions(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	type quizQuestion struct {
		CardID   string   `json:"cardId"`
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}
	questions := make([]quizQuestion, 0, len(set.Cards))
	for _, card := range set.Cards {
		questions = append(questions, quizQuestion{
			CardID:   card.ID,
			Question: card.Question,
			Options:  study.Distractors(set.Cards, card),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(questions)
}
