package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	gogithub "github.com/google/go-github/v84/github"

	"github.com/mrvivektikoo/pr-doc-agent/internal/store"
)

var (
	// ErrMalformed marks payloads that cannot be decoded or lack a PR URL.
	ErrMalformed = errors.New("malformed webhook payload")
	// ErrFiltered marks events whose action does not trigger processing.
	ErrFiltered = errors.New("action filtered")
	// ErrQueueFull is returned when the bounded job queue is at capacity.
	ErrQueueFull = errors.New("queue full")
	// ErrDuplicate marks a delivery whose ID was already recorded.
	ErrDuplicate = errors.New("duplicate delivery")
)

// Producer turns webhook deliveries into queued jobs. Only "opened" and
// "reopened" pull request events proceed; everything else is filtered.
// Depends only on the Store interface.
type Producer struct {
	store store.Store
	jobs  chan<- PRJob
}

// NewProducer returns a producer that sends jobs to the given channel.
func NewProducer(s store.Store, jobs chan<- PRJob) *Producer {
	return &Producer{store: s, jobs: jobs}
}

// Depth reports the current number of queued jobs.
func (p *Producer) Depth() int {
	return len(p.jobs)
}

// Accept decodes one webhook delivery, filters by action, records it, and
// enqueues a job. Returns the decoded job and the queue depth after enqueue.
// On ErrFiltered the job is still returned so callers can echo the PR URL.
func (p *Producer) Accept(ctx context.Context, deliveryID string, payload []byte) (*PRJob, int, error) {
	var event gogithub.PullRequestEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	pr := event.GetPullRequest()
	prURL := pr.GetHTMLURL()
	if prURL == "" {
		prURL = pr.GetURL()
	}
	if prURL == "" {
		return nil, 0, fmt.Errorf("%w: no pull request URL", ErrMalformed)
	}

	fullName := event.GetRepo().GetFullName()
	owner, repo := splitRepo(fullName)
	number := event.GetNumber()
	if number == 0 {
		number = pr.GetNumber()
	}
	job := &PRJob{
		DeliveryID: deliveryID,
		PRURL:      prURL,
		Owner:      owner,
		Repo:       repo,
		FullName:   fullName,
		Number:     number,
		Title:      pr.GetTitle(),
		Action:     event.GetAction(),
		ReceivedAt: time.Now().UTC(),
	}
	if job.Action != "opened" && job.Action != "reopened" {
		return job, p.Depth(), ErrFiltered
	}
	if job.DeliveryID == "" {
		// Redeliveries without the header can't be deduped; make the ID unique.
		job.DeliveryID = fmt.Sprintf("%s#%d@%d", fullName, number, job.ReceivedAt.UnixNano())
	}

	recorded, err := p.store.RecordEvent(ctx, &store.EventRow{
		DeliveryID: job.DeliveryID,
		Action:     job.Action,
		PRURL:      job.PRURL,
		Repo:       job.FullName,
		PRNumber:   job.Number,
		ReceivedAt: job.ReceivedAt,
	})
	if err != nil {
		// History is best effort; the job still runs.
		clog.FromContext(ctx).Warn("record event", "pr", job.PRURL, "err", err)
	} else if !recorded {
		clog.FromContext(ctx).Debug("duplicate delivery, skipping", "delivery_id", job.DeliveryID)
		return job, p.Depth(), ErrDuplicate
	}

	select {
	case p.jobs <- *job:
	default:
		return job, p.Depth(), ErrQueueFull
	}
	clog.FromContext(ctx).Info("pull request enqueued", "pr", job.PRURL, "action", job.Action, "queue_size", p.Depth())
	return job, p.Depth(), nil
}

func splitRepo(fullName string) (owner, repo string) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return fullName, ""
}
