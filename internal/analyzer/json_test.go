package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
		want  Verdict
	}{
		{
			name:  "bare JSON",
			reply: `{"update_needed": true, "reason": "new flag added", "suggestions": ["document --force"]}`,
			want:  Verdict{UpdateNeeded: true, Reason: "new flag added", Suggestions: []string{"document --force"}},
		},
		{
			name:  "json code fence",
			reply: "```json\n{\"update_needed\": false, \"reason\": \"test-only change\"}\n```",
			want:  Verdict{UpdateNeeded: false, Reason: "test-only change"},
		},
		{
			name:  "plain code fence",
			reply: "```\n{\"update_needed\": true, \"reason\": \"api change\"}\n```",
			want:  Verdict{UpdateNeeded: true, Reason: "api change"},
		},
		{
			name:  "surrounding prose",
			reply: "Here is my verdict:\n{\"update_needed\": true, \"reason\": \"config renamed\"}\nLet me know if you need more.",
			want:  Verdict{UpdateNeeded: true, Reason: "config renamed"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseVerdict(tc.reply)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestParseVerdict_NotJSON(t *testing.T) {
	_, err := parseVerdict("I could not decide.")
	assert.Error(t, err)
}

func TestExtractJSON_EmptyFence(t *testing.T) {
	assert.Equal(t, "", extractJSON("```json\n```"))
}
