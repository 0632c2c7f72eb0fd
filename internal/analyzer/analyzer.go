// Package analyzer decides whether a pull request's changes call for a
// documentation update, by asking a language model to compare the diff
// against the current documentation.
package analyzer

import "context"

// Input is what the analyzer judges: one PR diff against one doc file.
type Input struct {
	Repo    string
	PRTitle string
	Diff    string
	Doc     string
}

// Verdict is the structured answer parsed from the model's reply.
type Verdict struct {
	UpdateNeeded bool     `json:"update_needed"`
	Reason       string   `json:"reason"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Analyzer produces a verdict for an input. Implementations delegate the
// judgment to an external model.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (*Verdict, error)
}
