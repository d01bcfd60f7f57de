package config

import "os"

type Environment struct {
	IsDevelopment bool
	GeminiAPIKey  string
	GeminiModel   string
	AuthBaseURL   string
	AuthAPIKey    string
}

var Env Environment

// Load populates Env from the process environment. Called from main
// after godotenv has run.
func Load() {
	Env = Environment{
		IsDevelopment: os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "",
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		AuthBaseURL:   os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:    os.Getenv("AUTH_API_KEY"),
	}
}
