package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSON parses a model completion into dest, tolerating the usual LLM
// output quirks: markdown code fences, prose around the object, trailing
// commas, single quotes. Strict parsing is tried first; jsonrepair is the
// fallback.
func DecodeJSON(raw string, dest interface{}) error {
	text := StripFences(raw)
	if text == "" {
		return fmt.Errorf("llm: empty completion")
	}

	if err := json.Unmarshal([]byte(text), dest); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return fmt.Errorf("llm: repair json: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), dest); err != nil {
		return fmt.Errorf("llm: decode repaired json: %w", err)
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, and trims to the outermost JSON object or array when the
// model wrapped it in prose.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			// Drop the language tag line ("json", "JSON", or empty).
			first := strings.TrimSpace(text[:i])
			if len(first) <= 8 && !strings.ContainsAny(first, "{[") {
				text = text[i+1:]
			}
		}
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	// Prose around the payload: cut to the outermost object or array.
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndexByte(text, '}')
	} else {
		end = strings.LastIndexByte(text, ']')
	}
	if end > start {
		return text[start : end+1]
	}
	return text[start:]
}
