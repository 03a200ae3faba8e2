package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSONResponse decodes a model response into out. Models frequently wrap
// JSON payloads in markdown code fences or lead with prose, so the payload is
// located by scanning for the outermost object or array.
func DecodeJSONResponse(raw string, out any) error {
	payload := extractJSONPayload(raw)
	if payload == "" {
		return fmt.Errorf("no JSON payload in response")
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func extractJSONPayload(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences (```json ... ``` or bare ```)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	// Fall back to the first object/array embedded in surrounding prose.
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start >= 0 && end > start {
			return s[start : end+1]
		}
	}
	return ""
}
