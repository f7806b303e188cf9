package ports

import "time"

// Compose outcomes reported to Metrics.
const (
	OutcomeDone      = "done"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
)

// Metrics records composer activity.
type Metrics interface {
	// ComposeStarted marks the start of a compose run.
	ComposeStarted()

	// ComposeFinished records the outcome and wall time of a compose run.
	ComposeFinished(outcome string, elapsed time.Duration)

	// ArtifactProduced records the size of a produced video.
	ArtifactProduced(bytes int)

	// Progress records the current progress percentage.
	Progress(percent int)
}
