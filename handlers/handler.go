package handlers

import (
	"github.com/omprakashcoder/flashcardgenerator-v1/auth"
	"github.com/omprakashcoder/flashcardgenerator-v1/gemini"
	"github.com/omprakashcoder/flashcardgenerator-v1/storage"
)

// Handler bundles the collaborators every route needs: the persistence
// store, the generative AI client, and the external auth service.
type Handler struct {
	Store *storage.Store
	AI    *gemini.Client
	Auth  *auth.Client
}
