package gemini

import "strings"

// CleanJSON strips Markdown fences and surrounding junk from model output.
// The generation config asks for raw JSON, but models occasionally wrap the
// payload in ```json fences or lead with prose anyway.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// If there is still junk around the payload, keep only the outermost
	// JSON object or array.
	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end > start {
		s = strings.TrimSpace(s[start : end+1])
	}
	return s
}
