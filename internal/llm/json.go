package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON pulls the first JSON value out of content and unmarshals it into result.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

// extractJSON returns the JSON payload from a model reply that may wrap it
// in a fenced code block or surround it with prose.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		if body, ok := fenced(s, fence); ok {
			return body
		}
	}

	// Raw JSON: first balanced {...} or [...]
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return s[i : j+1]
				}
			}
		}
	}

	return s
}

func fenced(s, open string) (string, bool) {
	idx := strings.Index(s, open)
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimLeft(s[idx+len(open):], "\r\n")
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(rest[:end], "\r\n"), true
}
