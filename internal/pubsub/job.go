package pubsub

import "time"

// PRJob is one unit of work for the consumer: judge this pull request's diff
// against the repository documentation and advise on the PR.
type PRJob struct {
	DeliveryID string
	PRURL      string
	Owner      string
	Repo       string
	FullName   string
	Number     int
	Title      string
	Action     string
	ReceivedAt time.Time
}
