package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/omprakashcoder/flashcardgenerator-v1/gemini"
	"github.com/omprakashcoder/flashcardgenerator-v1/models"
	"github.com/omprakashcoder/flashcardgenerator-v1/utils"
)

// POST /api/generate
//
// Runs the AI generation pipeline and returns an unsaved draft set for
// the review step. Nothing is persisted until POST /api/sets.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string                   `json:"content"`
		Files   []gemini.FileInput       `json:"files"`
		Options models.GenerationOptions `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Generate: invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" && len(req.Files) == 0 {
		http.Error(w, "Provide text content or at least one file", http.StatusBadRequest)
		return
	}
	if req.Options.CardCount <= 0 {
		req.Options.CardCount = 10
	}
	if req.Options.Difficulty == "" {
		req.Options.Difficulty = "medium"
	}
	if req.Options.AnswerLength == "" {
		req.Options.AnswerLength = "medium"
	}

	result, err := h.AI.GenerateFlashcards(r.Context(), req.Content, req.Files, req.Options)
	if err != nil {
		var parseErr *gemini.ParseError
		if errors.As(err, &parseErr) {
			log.Printf("Generate: unparseable response: %v", err)
			http.Error(w, "Invalid response format from AI. The content might be too long or complex.", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("Generate: generation failed: %v", err)
		http.Error(w, "Failed to generate content", http.StatusBadGateway)
		return
	}
	if len(result.Cards) == 0 {
		log.Printf("Generate: generation produced no valid cards")
		http.Error(w, "Failed to generate valid flashcards.", http.StatusUnprocessableEntity)
		return
	}

	setID, err := gonanoid.New()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	source := "text input"
	if len(req.Files) > 0 {
		source = "uploaded files"
	}
	draft := models.CardSet{
		ID:          setID,
		Title:       result.Topic,
		CreatedAt:   time.Now().UnixMilli(),
		Cards:       make([]models.Flashcard, 0, len(result.Cards)),
		Description: "Generated from " + source,
		Difficulty:  req.Options.Difficulty,
	}
	if draft.Title == "" {
		draft.Title = "New Study Set"
	}
	for _, card := range result.Cards {
		cardID, err := gonanoid.New()
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		draft.Cards = append(draft.Cards, models.Flashcard{
			ID:       cardID,
			Question: card.Question,
			Answer:   card.Answer,
			Category: card.Category,
			Status:   models.CardStatusNew,
		})
	}

	log.Printf("Generate: produced draft set %s with %d cards", draft.ID, len(draft.Cards))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(draft)
}

// POST /api/sets/{setID}/summary
func (h *Handler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	summary, err := h.AI.GenerateSummary(r.Context(), set.Cards)
	if err != nil {
		log.Printf("GenerateSummary: failed for setID=%s: %v", setID, err)
		http.Error(w, "Error generating summary.", http.StatusBadGateway)
		return
	}

	set.Summary = summary
	if err := h.Store.SaveSet(set, userID); err != nil {
		log.Printf("GenerateSummary: failed to cache summary for setID=%s: %v", setID, err)
		http.Error(w, "Failed to save summary", http.StatusInternalServerError)
		return
	}
	h.bumpStats(userID, func(stats *models.UserStats) { stats.SummariesGenerated++ })

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"summary": summary})
}

// POST /api/sets/{setID}/mindmap
//
// A response the normalizer cannot parse is reported as a null mind
// map, not an error: the feature is optional.
func (h *Handler) GenerateMindMap(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	userID, _ := utils.GetUserID(r)

	set, ok := h.Store.Set(setID, userID)
	if !ok {
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}

	data, err := h.AI.GenerateMindMap(r.Context(), set.Cards)
	if err != nil {
		log.Printf("GenerateMindMap: failed for setID=%s: %v", setID, err)
		http.Error(w, "Error generating mind map.", http.StatusBadGateway)
		return
	}

	if data != nil {
		set.MindMap = data
		if err := h.Store.SaveSet(set, userID); err != nil {
			log.Printf("GenerateMindMap: failed to cache mind map for setID=%s: %v", setID, err)
			http.Error(w, "Failed to save mind map", http.StatusInternalServerError)
			return
		}
		h.bumpStats(userID, func(stats *models.UserStats) { stats.MindmapsGenerated++ })
	} else {
		log.Printf("GenerateMindMap: unparseable mind map for setID=%s", setID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*models.MindMapData{"mindMap": data})
}

// bumpStats applies a counter update for authenticated users; guests
// have no profile to update.
func (h *Handler) bumpStats(userID string, update func(*models.UserStats)) {
	if userID == "" {
		return
	}
	user := h.Store.User(userID)
	if user == nil {
		return
	}
	update(&user.Stats)
	if err := h.Store.SaveUser(user); err != nil {
		log.Printf("bumpStats: failed to save stats for id=%s: %v", userID, err)
	}
}
