package extract

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Object finds and parses a single top-level JSON object in the candidate
// text. It tries, in order: the candidate as-is, a ```json fence, a generic
// code fence, and a balanced {...} span after any preamble. Strict parsing is
// retried once through jsonrepair, which fixes the single quotes, trailing
// commas and unquoted keys models like to emit. ok=false means the caller
// should treat the candidate as opaque answer text; nothing here ever panics.
func Object(candidate string) (map[string]any, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false
	}
	if obj, ok := parseObject(candidate); ok {
		return obj, true
	}
	if m := jsonFence.FindStringSubmatch(candidate); m != nil {
		if obj, ok := parseObject(strings.TrimSpace(m[1])); ok {
			return obj, true
		}
	}
	if inner, ok := genericFence(candidate); ok {
		if obj, ok := parseObject(inner); ok {
			return obj, true
		}
	}
	if span, ok := firstObjectSpan(candidate); ok {
		if obj, ok := parseObject(span); ok {
			return obj, true
		}
	}
	return nil, false
}

// parseObject is one strict decode plus one repair-and-retry. Only JSON
// objects count; arrays and scalars are not an envelope.
func parseObject(s string) (map[string]any, bool) {
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}
	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, false
	}
	obj = nil
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// genericFence returns the interior of the first ``` block, skipping a short
// language tag line if present.
func genericFence(s string) (string, bool) {
	idx := strings.Index(s, "```")
	if idx < 0 {
		return "", false
	}
	start := idx + 3
	if nl := strings.Index(s[start:], "\n"); nl >= 0 && nl < 20 {
		start += nl + 1
	}
	end := strings.Index(s[start:], "```")
	if end <= 0 {
		return "", false
	}
	return strings.TrimSpace(s[start : start+end]), true
}

// firstObjectSpan returns the first balanced {...} span in the text, which
// handles "Here is the result:\n{...}" style preambles.
func firstObjectSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
