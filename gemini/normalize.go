package gemini

import (
	"encoding/json"
	"strings"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

// ParseError reports that a generation response could not be coerced
// into the expected shape at any fallback stage.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// CardDraft is a normalized card before it is given an ID and status.
type CardDraft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// GenerationResult is the canonical shape of a flashcard generation
// response.
type GenerationResult struct {
	Topic string      `json:"topic"`
	Cards []CardDraft `json:"cards"`
}

// ParseGenerationResponse coerces loosely-shaped model output into a
// GenerationResult. Stages are tried in order, first success wins:
// direct JSON parse, code-fence strip, first-{...last-} substring,
// first-[...last-] substring. An empty card list after filtering is
// the caller's problem, not a parse failure.
func ParseGenerationResponse(text string) (*GenerationResult, error) {
	if parsed, ok := decodeAny(text); ok {
		return normalizeParsed(parsed), nil
	}

	clean := stripCodeFences(text)
	if parsed, ok := decodeAny(clean); ok {
		return normalizeParsed(parsed), nil
	}

	if start := strings.Index(clean, "{"); start >= 0 {
		if end := strings.LastIndex(clean, "}"); end > start {
			if parsed, ok := decodeAny(clean[start : end+1]); ok {
				return normalizeParsed(parsed), nil
			}
		}
	}

	if start := strings.Index(clean, "["); start >= 0 {
		if end := strings.LastIndex(clean, "]"); end > start {
			if parsed, ok := decodeAny(clean[start : end+1]); ok {
				return normalizeParsed(parsed), nil
			}
		}
	}

	return nil, &ParseError{Message: "invalid response format from AI: the content might be too long or complex"}
}

// ParseMindMap parses strict mind-map JSON, retrying once after
// stripping code fences. Failure returns nil rather than an error
// because a missing mind map is a soft condition.
func ParseMindMap(text string) *models.MindMapData {
	var data models.MindMapData
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &data); err == nil {
		return &data
	}
	clean := stripCodeFences(text)
	if err := json.Unmarshal([]byte(clean), &data); err == nil {
		return &data
	}
	return nil
}

func decodeAny(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// normalizeParsed applies the shape rules uniformly to whatever JSON
// value a fallback stage produced.
func normalizeParsed(parsed any) *GenerationResult {
	topic := "Untitled Set"
	var rawCards []any

	switch value := parsed.(type) {
	case []any:
		rawCards = value
	case map[string]any:
		topic = "Study Set"
		if s := stringField(value, "topic"); s != "" {
			topic = s
		} else if s := stringField(value, "title"); s != "" {
			topic = s
		}
		if cards, ok := value["cards"].([]any); ok {
			rawCards = cards
		} else if cards, ok := value["flashcards"].([]any); ok {
			rawCards = cards
		}
	}

	cards := make([]CardDraft, 0, len(rawCards))
	for _, raw := range rawCards {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		question := firstStringField(entry, "q", "question")
		answer := firstStringField(entry, "a", "answer")
		category := firstStringField(entry, "c", "category")
		if category == "" {
			category = "General"
		}
		// Both sides are required; anything else is dropped.
		if question == "" || answer == "" {
			continue
		}
		cards = append(cards, CardDraft{Question: question, Answer: answer, Category: category})
	}

	return &GenerationResult{Topic: topic, Cards: cards}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func firstStringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

func stripCodeFences(text string) string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.TrimSpace(clean)
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
