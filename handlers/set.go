package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
	"github.com/omprakashcoder/flashcardgenerator-v1/utils"
)

// GET /api/sets
func (h *Handler) GetSets(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserID(r)
	sets := h.Store.Sets(userID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sets); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GET /api/sets/{setID}
func (h *Handler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		log.Printf("GetSetByID: set not found for id=%s", setID)
		http.Error(w, fmt.Sprintf("Set with ID %s not found", setID), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

// POST /api/sets
//
// Persists a reviewed set. Generation results are drafts until they
// pass validation here: a title and at least one complete card.
func (h *Handler) CreateSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserID(r)

	var set models.CardSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Printf("CreateSet: invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if set.Title == "" {
		http.Error(w, "Set title is required", http.StatusBadRequest)
		return
	}
	if len(set.Cards) == 0 {
		http.Error(w, "A set needs at least one card", http.StatusBadRequest)
		return
	}
	for i := range set.Cards {
		if set.Cards[i].Question == "" || set.Cards[i].Answer == "" {
			http.Error(w, "Each flashcard must have a question and answer", http.StatusBadRequest)
			return
		}
		if set.Cards[i].ID == "" {
			cardID, err := gonanoid.New()
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			set.Cards[i].ID = cardID
		}
		if set.Cards[i].Status == "" {
			set.Cards[i].Status = models.CardStatusNew
		}
	}
	if set.ID == "" {
		setID, err := gonanoid.New()
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		set.ID = setID
	}
	if set.CreatedAt == 0 {
		set.CreatedAt = time.Now().UnixMilli()
	}

	_, existed := h.Store.Set(set.ID, userID)
	if err := h.Store.SaveSet(set, userID); err != nil {
		log.Printf("CreateSet: failed to save set id=%s: %v", set.ID, err)
		http.Error(w, "Failed to save set", http.StatusInternalServerError)
		return
	}
	if !existed {
		h.bumpStats(userID, func(stats *models.UserStats) { stats.FlashcardsGenerated++ })
	}

	log.Printf("CreateSet: saved set id=%s with %d cards", set.ID, len(set.Cards))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(set)
}

// PUT /api/sets/{setID}
func (h *Handler) UpdateSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		http.Error(w, fmt.Sprintf("Set with ID %s not found", setID), http.StatusNotFound)
		return
	}

	var req struct {
		Title *string             `json:"title,omitempty"`
		Cards *[]models.Flashcard `json:"cards,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("UpdateSetByID: invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			http.Error(w, "Set title is required", http.StatusBadRequest)
			return
		}
		set.Title = *req.Title
	}
	if req.Cards != nil {
		if len(*req.Cards) == 0 {
			http.Error(w, "A set needs at least one card", http.StatusBadRequest)
			return
		}
		for i := range *req.Cards {
			card := &(*req.Cards)[i]
			if card.Question == "" || card.Answer == "" {
				http.Error(w, "Each flashcard must have a question and answer", http.StatusBadRequest)
				return
			}
			if card.ID == "" {
				cardID, err := gonanoid.New()
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				card.ID = cardID
			}
			if card.Status == "" {
				card.Status = models.CardStatusNew
			}
		}
		set.Cards = *req.Cards
	}

	if err := h.Store.SaveSet(set, userID); err != nil {
		log.Printf("UpdateSetByID: failed to update set id=%s: %v", setID, err)
		http.Error(w, fmt.Sprintf("Failed to update set with ID %s", setID), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

// DELETE /api/sets/{setID}
func (h *Handler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	if _, ok := h.Store.Set(setID, userID); !ok {
		http.Error(w, fmt.Sprintf("Set with ID %s not found", setID), http.StatusNotFound)
		return
	}
	if err := h.Store.DeleteSet(setID, userID); err != nil {
		log.Printf("DeleteSetByID: failed to delete set id=%s: %v", setID, err)
		http.Error(w, fmt.Sprintf("Failed to delete set with ID %s", setID), http.StatusInternalServerError)
		return
	}

	log.Printf("DeleteSetByID: deleted set id=%s", setID)
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/sets/{setID}/mastery
//
// Partial update: only the mastery field is rewritten, card content is
// left untouched.
func (h *Handler) UpdateSetMastery(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	var req struct {
		MasteryPercentage int `json:"masteryPercentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MasteryPercentage < 0 || req.MasteryPercentage > 100 {
		http.Error(w, "Mastery percentage must be between 0 and 100", http.StatusBadRequest)
		return
	}

	if _, ok := h.Store.Set(setID, userID); !ok {
		http.Error(w, fmt.Sprintf("Set with ID %s not found", setID), http.StatusNotFound)
		return
	}
	if err := h.Store.UpdateSetMastery(setID, req.MasteryPercentage, userID); err != nil {
		log.Printf("UpdateSetMastery: failed for set id=%s: %v", setID, err)
		http.Error(w, "Failed to update mastery", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
