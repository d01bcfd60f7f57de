package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-3-flash-preview"
	defaultHTTPTimeout = 60 * time.Second
)

// Config captures the runtime settings required to talk to the
// generative content API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps the Gemini generateContent API with retry and response
// normalization.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryAttempts  int
	retryBaseDelay time.Duration
	sleeper        func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryAttempts overrides the default attempt count (3).
func WithRetryAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryAttempts = attempts
		}
	}
}

// WithRetryBaseDelay overrides the initial backoff delay (1s).
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay > 0 {
			c.retryBaseDelay = delay
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Gemini client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:     &http.Client{Timeout: timeout},
		retryAttempts:  defaultRetryAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	return client
}

// FileInput is an inline binary attachment (image or PDF) for a
// generation request. Data is base64-encoded.
type FileInput struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gemini request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// flashcardSchema constrains generation responses to {topic, cards:[{q,a}]}.
var flashcardSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"topic": map[string]any{"type": "STRING"},
		"cards": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"q": map[string]any{"type": "STRING"},
					"a": map[string]any{"type": "STRING"},
				},
				"required": []string{"q", "a"},
			},
		},
	},
	"required": []string{"topic", "cards"},
}

// GenerateFlashcards sends study material (text plus optional inline
// files) to the model and returns the normalized result. Callers must
// reject an empty card list themselves.
func (c *Client) GenerateFlashcards(ctx context.Context, material string, files []FileInput, options models.GenerationOptions) (*GenerationResult, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("gemini generate: api key required")
	}

	prompt := fmt.Sprintf(`Analyze the provided content and generate flashcards.

Configuration:
- Quantity: Exactly %d cards.
- Difficulty: %s (Adjust complexity of questions).
- Answer Detail: %s (short = 1 sentence, medium = 2-3 sentences, long = short paragraph).

Return ONLY a JSON object.

Structure:
{
  "topic": "Topic Title",
  "cards": [
    { "q": "Question", "a": "Answer" }
  ]
}

Guidelines:
- Limit to the most important concepts for speed.
- Use strict JSON format.`, options.CardCount, options.Difficulty, options.AnswerLength)

	parts := []part{{Text: prompt}}
	for _, file := range files {
		parts = append(parts, part{InlineData: &inlineData{MimeType: file.MimeType, Data: file.Data}})
	}
	if strings.TrimSpace(material) != "" {
		parts = append(parts, part{Text: "\n\nMaterial:\n" + material})
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   flashcardSchema,
		},
	}

	text, err := c.generateWithRetry(ctx, payload, "GenerateFlashcards")
	if err != nil {
		return nil, err
	}
	return ParseGenerationResponse(text)
}

// GenerateSummary returns a Markdown summary built from the set's
// question/answer pairs.
func (c *Client) GenerateSummary(ctx context.Context, cards []models.Flashcard) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("gemini summary: api key required")
	}

	var pairs []string
	for _, card := range cards {
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", card.Question, card.Answer))
	}
	prompt := "Based on these flashcards, write a concise, bulleted summary of the topic. Use Markdown.\n\n" +
		strings.Join(pairs, "\n\n")

	payload := generateContentRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	return c.generateWithRetry(ctx, payload, "GenerateSummary")
}

// GenerateMindMap builds a knowledge graph from the set's cards. A
// response that cannot be parsed yields (nil, nil): mind-map absence
// is a soft condition.
func (c *Client) GenerateMindMap(ctx context.Context, cards []models.Flashcard) (*models.MindMapData, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("gemini mindmap: api key required")
	}

	var concepts []string
	for _, card := range cards {
		concepts = append(concepts, fmt.Sprintf("Concept: %s\nDetail: %s", card.Question, card.Answer))
	}
	prompt := fmt.Sprintf(`Create a knowledge graph (mind map) from these concepts.

Requirements:
1. Identify the Main Topic.
2. Identify 3-5 Subconcepts.
3. Link details to Subconcepts.

Return STRICT JSON. No markdown formatting, just the raw JSON string.

Structure:
{
  "nodes": [
    {"id": "Main Topic", "group": 1, "label": "Main Topic"},
    {"id": "Subconcept", "group": 2, "label": "Subconcept"}
  ],
  "links": [
    {"source": "Main Topic", "target": "Subconcept", "value": 1}
  ]
}

Content to analyze:
%s`, strings.Join(concepts, "\n"))

	payload := generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.generateWithRetry(ctx, payload, "GenerateMindMap")
	if err != nil {
		return nil, err
	}
	return ParseMindMap(text), nil
}

func (c *Client) generateWithRetry(ctx context.Context, payload generateContentRequest, op string) (string, error) {
	requestID := uuid.NewString()
	return c.withRetry(ctx, op+" request="+requestID, func() (string, error) {
		return c.generateOnce(ctx, payload)
	})
}

func (c *Client) generateOnce(ctx context.Context, payload generateContentRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("gemini request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("gemini request: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini request: api error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}
	return "", errors.New("gemini request: no response generated")
}
