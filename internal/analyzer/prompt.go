package analyzer

import (
	"fmt"
	"strings"
)

// Byte caps applied before prompting. Large PRs are truncated rather than
// rejected; the head of a diff carries most of the signal.
const (
	maxDiffBytes = 64 * 1024
	maxDocBytes  = 32 * 1024
)

const systemPrompt = `ROLE: Documentation reviewer for pull requests.

TASK: Given a pull request diff and the repository's current documentation,
decide whether the documentation needs updating to stay accurate.

Consider an update needed when the diff changes behavior, configuration,
installation steps, command-line flags, API surface, or examples that the
documentation describes or should describe. Pure refactors, test-only
changes, and formatting do not need documentation updates.

Reply with a single JSON object and nothing else:
{
  "update_needed": true|false,
  "reason": "<one or two sentences>",
  "suggestions": ["<concrete doc change>", ...]
}

The suggestions array may be empty. Do not wrap the JSON in markdown fences.`

func buildPrompt(in Input) string {
	var sb strings.Builder
	if in.Repo != "" {
		fmt.Fprintf(&sb, "Repository: %s\n", in.Repo)
	}
	if in.PRTitle != "" {
		fmt.Fprintf(&sb, "Pull request title: %s\n", in.PRTitle)
	}
	sb.WriteString("\nPull request diff:\n")
	sb.WriteString(truncate(in.Diff, maxDiffBytes))
	sb.WriteString("\n\nCurrent documentation:\n")
	if in.Doc == "" {
		sb.WriteString("(the repository has no documentation file)")
	} else {
		sb.WriteString(truncate(in.Doc, maxDocBytes))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}
