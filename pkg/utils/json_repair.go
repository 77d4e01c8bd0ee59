package utils

import (
	"encoding/json"
	"strings"
)

// CleanJSONResponse strips markdown fences and any commentary the model wraps
// around its JSON payload, returning the first complete object or array found.
// If no balanced payload exists the trimmed input is returned as-is so the
// caller can attempt truncation repair.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")

	prefixes := []string{
		"Here's the travel plan:",
		"Here is your plan:",
		"Here is the itinerary:",
		"The travel plan is:",
		"Travel plan:",
		"Itinerary:",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.TrimSpace(response), prefix) {
			response = strings.TrimPrefix(strings.TrimSpace(response), prefix)
			break
		}
	}

	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if objEnd := findMatchingBrace(response, objStart); objEnd != -1 {
			return strings.TrimSpace(response[objStart : objEnd+1])
		}
		return strings.TrimSpace(response[objStart:])
	}
	if arrStart != -1 {
		if arrEnd := findMatchingBracket(response, arrStart); arrEnd != -1 {
			return strings.TrimSpace(response[arrStart : arrEnd+1])
		}
		return strings.TrimSpace(response[arrStart:])
	}
	return response
}

// ExtractJSON cleans a raw model response and, if the payload is truncated or
// malformed, attempts a truncation repair. The returned string is guaranteed to
// pass json.Valid whenever ok is true.
func ExtractJSON(raw string) (string, bool) {
	cleaned := CleanJSONResponse(raw)
	if json.Valid([]byte(cleaned)) {
		return cleaned, true
	}
	return RepairTruncatedJSON(cleaned)
}

// RepairTruncatedJSON tries to turn a JSON string cut off mid-stream into a
// parseable one: it drops a trailing unterminated string literal, removes
// dangling separators, and appends the missing closing brackets. ok is only
// true when the result actually parses.
func RepairTruncatedJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for attempt := 0; attempt < 8; attempt++ {
		repaired, ok := closeTruncated(s)
		if ok {
			return repaired, true
		}
		// Chop back to the previous comma and retry with one fewer value.
		cut := strings.LastIndex(s, ",")
		if cut <= 0 {
			return "", false
		}
		s = strings.TrimSpace(s[:cut])
	}
	return "", false
}

// closeTruncated performs a single repair pass over s.
func closeTruncated(s string) (string, bool) {
	var stack []byte
	inString := false
	escaped := false
	stringStart := -1

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			if inString {
				inString = false
				stringStart = -1
			} else {
				inString = true
				stringStart = i
			}
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{', '[':
			stack = append(stack, ch)
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				return "", false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return "", false
			}
			stack = stack[:len(stack)-1]
		}
	}

	// Cut off an unterminated trailing string literal, including its opening quote.
	if inString && stringStart >= 0 {
		s = s[:stringStart]
	}

	s = strings.TrimRight(s, " \t\r\n")

	// A dangling colon means the key lost its value; drop the key string too.
	if strings.HasSuffix(s, ":") {
		s = strings.TrimRight(s[:len(s)-1], " \t\r\n")
		if strings.HasSuffix(s, "\"") {
			if open := openingQuoteIndex(s, len(s)-1); open >= 0 {
				s = strings.TrimRight(s[:open], " \t\r\n")
			}
		}
	}
	s = strings.TrimSuffix(strings.TrimRight(s, " \t\r\n"), ",")

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}

	if json.Valid([]byte(s)) {
		return s, true
	}
	return "", false
}

// openingQuoteIndex walks backwards from the closing quote at position end to
// find the unescaped quote that opened the literal.
func openingQuoteIndex(s string, end int) int {
	for i := end - 1; i >= 0; i-- {
		if s[i] != '"' {
			continue
		}
		// Count preceding backslashes; an even count means the quote is real.
		backslashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

func findMatchingBrace(s string, start int) int {
	return findMatching(s, start, '{', '}')
}

func findMatchingBracket(s string, start int) int {
	return findMatching(s, start, '[', ']')
}

func findMatching(s string, start int, open, closer byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
