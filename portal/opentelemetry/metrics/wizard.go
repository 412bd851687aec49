package metrics

import (
	"context"
	"time"
)

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDuplicate = "duplicate"
)

var (
	// MetricWizardQuotes counts quote requests by flow and outcome.
	MetricWizardQuotes = Metric{
		Name:        "wizard_quotes",
		Unit:        "1",
		Description: "Measures the number of wizard quote requests.",
	}

	// MetricWizardCommits counts commit attempts by flow and outcome.
	MetricWizardCommits = Metric{
		Name:        "wizard_commits",
		Unit:        "1",
		Description: "Measures the number of wizard commit attempts.",
	}

	// MetricWizardDuplicateRejections counts commits the backend rejected as duplicates.
	MetricWizardDuplicateRejections = Metric{
		Name:        "wizard_duplicate_rejections",
		Unit:        "1",
		Description: "Measures the number of commits rejected as duplicate requests.",
	}

	// MetricBackendRequestDuration observes backend call latency.
	MetricBackendRequestDuration = Metric{
		Name:        "backend_request_duration",
		Unit:        "ms",
		Description: "Measures the latency of portal backend calls.",
	}
)

// RecordWizardQuote counts one quote request.
func (f *Factory) RecordWizardQuote(ctx context.Context, flow, outcome string) error {
	b, err := f.Counter(MetricWizardQuotes)
	if err != nil {
		return err
	}

	return b.ForFlow(flow).WithOutcome(outcome).AddOne(ctx)
}

// RecordWizardCommit counts one commit attempt. A duplicate outcome also
// increments the duplicate rejection counter.
func (f *Factory) RecordWizardCommit(ctx context.Context, flow, outcome string) error {
	b, err := f.Counter(MetricWizardCommits)
	if err != nil {
		return err
	}

	if err := b.ForFlow(flow).WithOutcome(outcome).AddOne(ctx); err != nil {
		return err
	}

	if outcome != OutcomeDuplicate {
		return nil
	}

	dup, err := f.Counter(MetricWizardDuplicateRejections)
	if err != nil {
		return err
	}

	return dup.ForFlow(flow).AddOne(ctx)
}

// RecordBackendRequest observes the latency of one backend call.
func (f *Factory) RecordBackendRequest(ctx context.Context, operation string, status int, elapsed time.Duration) error {
	h, err := f.Histogram(MetricBackendRequestDuration)
	if err != nil {
		return err
	}

	return h.ForCall(operation, status).Record(ctx, float64(elapsed.Microseconds())/1000)
}
