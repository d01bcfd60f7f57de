package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/omprakashcoder/flashcardgenerator-v1/auth"
	"github.com/omprakashcoder/flashcardgenerator-v1/config"
	"github.com/omprakashcoder/flashcardgenerator-v1/gemini"
	"github.com/omprakashcoder/flashcardgenerator-v1/handlers"
	"github.com/omprakashcoder/flashcardgenerator-v1/middleware"
	"github.com/omprakashcoder/flashcardgenerator-v1/storage"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	config.Load()
	config.Connect()

	store := storage.NewStore(storage.NewGormKV(config.Database))
	aiClient := gemini.NewClient(gemini.Config{
		APIKey: config.Env.GeminiAPIKey,
		Model:  config.Env.GeminiModel,
	})
	authClient := auth.NewClient(config.Env.AuthBaseURL, config.Env.AuthAPIKey)

	h := &handlers.Handler{Store: store, AI: aiClient, Auth: authClient}
	authMiddleware := middleware.EnsureValidToken()
	syncUser := middleware.SyncUserMiddleware(store)

	mux := http.NewServeMux()

	// Auth collaborator
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/recover", h.RecoverPassword)
	mux.HandleFunc("POST /api/auth/guest", h.GuestSession)

	// Generation
	mux.HandleFunc("POST /api/generate", h.Generate)

	// Sets
	mux.HandleFunc("GET /api/sets", h.GetSets)
	mux.HandleFunc("POST /api/sets", h.CreateSet)
	mux.HandleFunc("GET /api/sets/{setID}", h.GetSetByID)
	mux.HandleFunc("PUT /api/sets/{setID}", h.UpdateSetByID)
	mux.HandleFunc("DELETE /api/sets/{setID}", h.DeleteSetByID)
	mux.HandleFunc("PUT /api/sets/{setID}/mastery", h.UpdateSetMastery)
	mux.HandleFunc("POST /api/sets/{setID}/summary", h.GenerateSummary)
	mux.HandleFunc("POST /api/sets/{setID}/mindmap", h.GenerateMindMap)

	// Study sessions
	mux.HandleFunc("GET /api/sets/{setID}/session", h.GetSessionProgress)
	mux.HandleFunc("PUT /api/sets/{setID}/session", h.SaveSessionProgress)
	mux.HandleFunc("DELETE /api/sets/{setID}/session", h.ClearSessionProgress)
	mux.HandleFunc("POST /api/sets/{setID}/complete", h.CompleteSession)
	mux.HandleFunc("GET /api/sets/{setID}/quiz", h.GetQuizOptions)

	// Profile
	mux.HandleFunc("GET /api/user", syncUser(h.GetProfile))
	mux.HandleFunc("PUT /api/user", syncUser(h.UpdateProfile))
	mux.HandleFunc("POST /api/user/upgrade", syncUser(h.UpgradeProfile))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://flashcard-ai.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	log.Printf("Listening on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		log.Fatal(err)
	}
}
