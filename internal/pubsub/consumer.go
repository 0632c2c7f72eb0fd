package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/mrvivektikoo/pr-doc-agent/internal/analyzer"
	"github.com/mrvivektikoo/pr-doc-agent/internal/github"
	"github.com/mrvivektikoo/pr-doc-agent/internal/store"
)

// CodeHost is the slice of the hosting platform the consumer needs
// (e.g. github.Client).
type CodeHost interface {
	GetDiff(ctx context.Context, owner, repo string, number int) (string, error)
	GetDoc(ctx context.Context, owner, repo, path string) (string, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Consumer processes PR jobs in FIFO order: fetch the diff and doc, ask the
// analyzer for a verdict, post an advisory comment when an update is needed,
// and record the outcome. Run it once; a single consumer preserves ordering.
type Consumer struct {
	store    store.Store
	host     CodeHost
	analyzer analyzer.Analyzer
	jobs     <-chan PRJob
	docPath  string
	running  atomic.Bool
}

// NewConsumer returns a consumer reading jobs from the given channel.
// docPath selects the documentation file; empty means the repository README.
func NewConsumer(s store.Store, host CodeHost, an analyzer.Analyzer, jobs <-chan PRJob, docPath string) *Consumer {
	return &Consumer{store: s, host: host, analyzer: an, jobs: jobs, docPath: docPath}
}

// Running reports whether the consumer loop is active.
func (c *Consumer) Running() bool {
	return c.running.Load()
}

// Run processes jobs until ctx is cancelled or the channel is closed.
func (c *Consumer) Run(ctx context.Context) {
	c.running.Store(true)
	defer c.running.Store(false)
	for {
		select {
		case <-ctx.Done():
			clog.FromContext(ctx).Debug("consumer stopping")
			return
		case job, ok := <-c.jobs:
			if !ok {
				clog.FromContext(ctx).Debug("consumer jobs channel closed")
				return
			}
			c.process(ctx, job)
		}
	}
}

func (c *Consumer) process(ctx context.Context, job PRJob) {
	log := clog.FromContext(ctx).With("repo", job.FullName, "pr", job.Number)
	log.Info("processing pull request", "url", job.PRURL)
	start := time.Now()

	verdict, commented, stage, err := c.analyzePR(ctx, job)

	row := &store.ResultRow{
		PRURL:          job.PRURL,
		Repo:           job.FullName,
		PRNumber:       job.Number,
		ReceivedAt:     job.ReceivedAt,
		ProcessedAt:    time.Now().UTC(),
		ProcessingSecs: time.Since(start).Seconds(),
	}
	switch {
	case err != nil:
		// Best effort: log, record the failed stage, move on. No retry.
		log.Warn(stage, "err", err)
		row.Status = "error: " + stage
	default:
		row.Status = "success"
		row.UpdateNeeded = verdict.UpdateNeeded
		row.Reason = verdict.Reason
		row.CommentPosted = commented
		log.Info("pull request processed",
			"update_needed", verdict.UpdateNeeded,
			"comment_posted", commented,
			"duration", time.Since(start).Round(time.Millisecond))
	}
	if err := c.store.RecordResult(ctx, row); err != nil {
		log.Warn("record result", "err", err)
	}
}

// analyzePR runs the orchestration sequence for one job. On failure it
// returns the stage that failed for the per-job status field.
func (c *Consumer) analyzePR(ctx context.Context, job PRJob) (verdict *analyzer.Verdict, commented bool, stage string, err error) {
	diff, err := c.host.GetDiff(ctx, job.Owner, job.Repo, job.Number)
	if err != nil {
		return nil, false, "fetch diff", err
	}

	doc, err := c.host.GetDoc(ctx, job.Owner, job.Repo, c.docPath)
	if err != nil && !errors.Is(err, github.ErrNotFound) {
		return nil, false, "fetch doc", err
	}
	// A repository without documentation still gets a verdict; the prompt
	// tells the model the doc file is missing.

	verdict, err = c.analyzer.Analyze(ctx, analyzer.Input{
		Repo:    job.FullName,
		PRTitle: job.Title,
		Diff:    diff,
		Doc:     doc,
	})
	if err != nil {
		return nil, false, "analyze", err
	}
	if !verdict.UpdateNeeded {
		return verdict, false, "", nil
	}

	if err := c.host.PostComment(ctx, job.Owner, job.Repo, job.Number, advisoryComment(verdict)); err != nil {
		return verdict, false, "post comment", err
	}
	return verdict, true, "", nil
}

// advisoryComment renders the verdict as the PR comment body.
func advisoryComment(v *analyzer.Verdict) string {
	var sb strings.Builder
	sb.WriteString("### 📝 Documentation update suggested\n\n")
	sb.WriteString(v.Reason)
	sb.WriteString("\n")
	if len(v.Suggestions) > 0 {
		sb.WriteString("\nSuggested updates:\n\n")
		for _, s := range v.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	sb.WriteString("\n_This is an automated advisory comment; no action is required to merge._\n")
	return sb.String()
}
