package driven

import "context"

// SubmissionSink receives the final text produced by a commit or an expansion.
// Each commit is handed to the sink exactly once.
type SubmissionSink interface {
	// Submit delivers text to its destination.
	Submit(ctx context.Context, text string) error

	// Name identifies the sink for logs and status messages.
	Name() string
}
