package analyzer

import (
	"encoding/json"
	"strings"
)

// parseVerdict unmarshals the model's reply into a Verdict. Models sometimes
// ignore instructions and wrap the JSON in markdown fences or surrounding
// prose, so the JSON object is carved out before unmarshalling.
func parseVerdict(reply string) (*Verdict, error) {
	var v Verdict
	if err := json.Unmarshal([]byte(extractJSON(reply)), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// extractJSON returns the first JSON object found in s, stripping any
// markdown code fences around it.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		s = strings.TrimSpace(rest)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
