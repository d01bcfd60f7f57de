package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"text": text},
					},
				},
			},
		},
	}
}

func testOptions() models.GenerationOptions {
	return models.GenerationOptions{Difficulty: "medium", CardCount: 10, AnswerLength: "short"}
}

func TestGenerateFlashcards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/demo-model:generateContent" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test" {
			t.Fatalf("missing api key header")
		}
		payload := candidateResponse(`{"topic":"Biology","cards":[{"q":"What is DNA?","a":"Genetic material"}]}`)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	result, err := client.GenerateFlashcards(context.Background(), "some notes", nil, testOptions())
	if err != nil {
		t.Fatalf("GenerateFlashcards returned error: %v", err)
	}
	if result.Topic != "Biology" {
		t.Fatalf("expected topic Biology, got %q", result.Topic)
	}
	if len(result.Cards) != 1 || result.Cards[0].Question != "What is DNA?" {
		t.Fatalf("unexpected cards %+v", result.Cards)
	}
}

func TestGenerateFlashcardsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := candidateResponse("```json\n{\"topic\":\"Go\",\"cards\":[{\"q\":\"Zero value of a map?\",\"a\":\"nil\"}]}\n```")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	result, err := client.GenerateFlashcards(context.Background(), "notes", nil, testOptions())
	if err != nil {
		t.Fatalf("GenerateFlashcards returned error: %v", err)
	}
	if result.Topic != "Go" {
		t.Fatalf("expected topic Go, got %q", result.Topic)
	}
}

func TestGenerateFlashcardsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		payload := candidateResponse(`{"topic":"Retry","cards":[{"q":"q","a":"a"}]}`)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(time.Duration) {}))
	result, err := client.GenerateFlashcards(context.Background(), "notes", nil, testOptions())
	if err != nil {
		t.Fatalf("GenerateFlashcards returned error: %v", err)
	}
	if result.Topic != "Retry" {
		t.Fatalf("expected topic Retry, got %q", result.Topic)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
}

func TestGenerateFlashcardsNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(time.Duration) {}))
	if _, err := client.GenerateFlashcards(context.Background(), "notes", nil, testOptions()); err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly 1 request, got %d", calls.Load())
	}
}

func TestGenerateFlashcardsRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.GenerateFlashcards(context.Background(), "notes", nil, testOptions()); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestGenerateSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := candidateResponse("- Mitochondria produce ATP\n- Ribosomes build proteins")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	cards := []models.Flashcard{{ID: "1", Question: "q", Answer: "a"}}
	summary, err := client.GenerateSummary(context.Background(), cards)
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if summary == "" {
		t.Fatal("expected non-empty summary")
	}
}

func TestGenerateMindMapSoftFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := candidateResponse("the model rambled instead of returning JSON")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	cards := []models.Flashcard{{ID: "1", Question: "q", Answer: "a"}}
	data, err := client.GenerateMindMap(context.Background(), cards)
	if err != nil {
		t.Fatalf("expected soft failure, got error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil mind map, got %+v", data)
	}
}

func TestGenerateMindMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := candidateResponse(`{"nodes":[{"id":"Main","group":1,"label":"Main"}],"links":[]}`)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	cards := []models.Flashcard{{ID: "1", Question: "q", Answer: "a"}}
	data, err := client.GenerateMindMap(context.Background(), cards)
	if err != nil {
		t.Fatalf("GenerateMindMap returned error: %v", err)
	}
	if data == nil || len(data.Nodes) != 1 {
		t.Fatalf("unexpected mind map %+v", data)
	}
}
