// Package modelout decodes structured data out of raw LLM output.
//
// Model output is adversarial by default: the JSON we asked for arrives
// wrapped in markdown fences, prefixed with commentary, or followed by an
// apology. Decode applies a fixed recovery ladder and never fabricates
// values; when every stage fails the caller gets a *domain.ParseError
// carrying the raw text for diagnosis.
package modelout

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

var (
	// fenceOpen matches a leading ``` marker with an optional language tag.
	fenceOpen = regexp.MustCompile("```[a-zA-Z]*[ \t]*\n?")

	// firstObject matches the first balanced-looking {...} block,
	// non-greedily, so trailing commentary is ignored.
	firstObject = regexp.MustCompile(`(?s)\{.*?\}`)
)

// StripFences removes markdown code-block delimiters from text. Language
// tags after the opening fence (```json) are removed with it. Text without
// fences is returned unchanged apart from surrounding whitespace.
func StripFences(text string) string {
	text = fenceOpen.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ExtractObject returns the first {...} substring of text using a
// non-greedy match, or "" when text contains no object at all.
func ExtractObject(text string) string {
	return firstObject.FindString(text)
}

// Decode unmarshals model output into v using the recovery ladder:
// strip code fences, try the whole text as JSON, then try the first
// balanced object inside it. On failure it returns a *domain.ParseError
// carrying the original raw text.
func Decode(raw string, v any) error {
	stripped := StripFences(raw)

	directErr := json.Unmarshal([]byte(stripped), v)
	if directErr == nil {
		return nil
	}

	if obj := ExtractObject(stripped); obj != "" {
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return nil
		}
	}

	return &domain.ParseError{Raw: raw, Err: directErr}
}
