package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/omprakashcoder/flashcardgenerator-v1/middleware"
	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

func userFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user
}

// GET /api/user
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// PUT /api/user
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name        *string             `json:"name,omitempty"`
		Email       *string             `json:"email,omitempty"`
		Preferences *models.Preferences `json:"preferences,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != nil {
		if len(*req.Name) < 2 {
			http.Error(w, "Username must be at least 2 characters.", http.StatusBadRequest)
			return
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Preferences != nil {
		user.Preferences = req.Preferences
	}

	if err := h.Store.SaveUser(user); err != nil {
		log.Printf("UpdateProfile: failed to save profile for id=%s: %v", user.ID, err)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// POST /api/user/upgrade
//
// Simulated checkout: flips the premium flag without touching a
// payment processor.
func (h *Handler) UpgradeProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user.IsPremium = true
	if err := h.Store.SaveUser(user); err != nil {
		log.Printf("UpgradeProfile: failed to save premium flag for id=%s: %v", user.ID, err)
		http.Error(w, "Failed to upgrade", http.StatusInternalServerError)
		return
	}

	log.Printf("UpgradeProfile: user %s upgraded to premium", user.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
