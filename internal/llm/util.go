package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first complete JSON object or array in a collaborator
// response, skipping code fences and any prose around it. Bracketed prose that is not
// JSON is stepped over whole. When the first bracket never closes, as in a truncated
// response, nothing nested inside it is returned; the trimmed text comes back unchanged
// so the caller's decoder reports the failure.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	for offset := 0; offset < len(text); {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i
		end := closingBracket(text, start)
		if end < 0 {
			break
		}
		if candidate := text[start:end]; json.Valid([]byte(candidate)) {
			return candidate
		}
		offset = end
	}
	return text
}

// closingBracket returns the index just past the bracket that closes text[start],
// ignoring brackets inside double-quoted strings, or -1 when it never closes.
func closingBracket(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
