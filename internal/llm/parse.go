package llm

import (
	"encoding/json"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ParseJSON interprets model output as JSON into v, recovering from the usual
// LLM formatting failures. Strategies in order: direct parse, fenced code
// block, first-brace-to-last-brace slice, automated repair. Fails with a
// permanent ParseError only when all four fail.
func ParseJSON(content string, v any) error {
	trimmed := strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if fenced := extractFenced(trimmed); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), v); err == nil {
			return nil
		}
	}

	if sliced := extractBraces(trimmed); sliced != "" {
		if err := json.Unmarshal([]byte(sliced), v); err == nil {
			return nil
		}
	}

	repaired, repairErr := jsonrepair.RepairJSON(trimmed)
	if repairErr == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}

	err := json.Unmarshal([]byte(trimmed), v)
	return &ParseError{Err: err, Raw: content}
}

// extractFenced pulls the body of a ```json fenced block, or any fenced
// block when no language tag is present.
func extractFenced(s string) string {
	start := strings.Index(s, "```json")
	offset := len("```json")
	if start < 0 {
		start = strings.Index(s, "```")
		offset = len("```")
	}
	if start < 0 {
		return ""
	}
	rest := s[start+offset:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

func extractBraces(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first < 0 || last <= first {
		return ""
	}
	return s[first : last+1]
}
