// Package gemini talks to the generative content API that produces
// flashcards, summaries, and mind maps from study material.
//
// The client retries transient failures (HTTP 5xx/429 or network-ish
// error messages) with exponential backoff, 3 attempts starting at 1s.
// Raw model output passes through a layered normalizer: direct JSON
// parse, code-fence stripping, then brace/bracket substring extraction.
// Flashcard parsing failures surface a *ParseError; mind-map parsing
// failures surface as a nil result because the feature is optional.
package gemini
