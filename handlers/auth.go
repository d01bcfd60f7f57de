package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/omprakashcoder/flashcardgenerator-v1/auth"
	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

// POST /api/auth/login
//
// Delegates to the external auth collaborator, creates the profile at
// first sign-in, and folds any guest-namespace sets into the account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login: sign-in failed for email=%s: %v", req.Email, err)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	user := h.Store.User(session.User.ID)
	if user == nil {
		user = &models.User{
			ID:    session.User.ID,
			Name:  session.User.DisplayName(),
			Email: session.User.Email,
			Preferences: &models.Preferences{
				RandomizeFront: true,
				RandomizeBack:  true,
			},
		}
		if err := h.Store.SaveUser(user); err != nil {
			log.Printf("Login: failed to create profile for id=%s: %v", session.User.ID, err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
		log.Printf("Login: created profile for new user %s", session.User.ID)
	}

	// One-shot: guest sets move into the account and the guest
	// namespace is cleared.
	if err := h.Store.MigrateGuestSets(session.User.ID); err != nil {
		log.Printf("Login: guest migration failed for id=%s: %v", session.User.ID, err)
	}

	response := struct {
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken,omitempty"`
		User         *models.User `json:"user"`
	}{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         user,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Name) < 2 {
		http.Error(w, "Username must be at least 2 characters.", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.Auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		log.Printf("Signup: failed for email=%s: %v", req.Email, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := struct {
		Message     string `json:"message"`
		AccessToken string `json:"accessToken,omitempty"`
	}{
		Message:     "Account created. Check your email to verify your address.",
		AccessToken: session.AccessToken,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// POST /api/auth/recover
func (h *Handler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		log.Printf("RecoverPassword: failed for email=%s: %v", req.Email, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Password reset instructions have been sent to your email.",
	})
}

// POST /api/auth/guest
//
// Mints a token for the guest namespace so unauthenticated clients can
// present the same bearer shape as signed-in ones.
func (h *Handler) GuestSession(w http.ResponseWriter, r *http.Request) {
	guestID, err := gonanoid.New()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	token, err := auth.CreateGuestToken(guestID)
	if err != nil {
		log.Printf("GuestSession: failed to mint token: %v", err)
		http.Error(w, "Failed to create guest session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
}
