package pipeline

import (
	"time"
)

// Run states.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// StepResult is the outcome of one step within a run.
type StepResult struct {
	StepID   string        `json:"step_id"`
	Status   StepStatus    `json:"status"`
	Error    string        `json:"error,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
	// Data carries step-type-specific results: reconciler statistics for
	// sync steps, record counts for collect steps, the destination for
	// export steps.
	Data map[string]any `json:"data,omitempty"`
}

// RunResult is the aggregated outcome of one pipeline run.
type RunResult struct {
	PipelineID    string        `json:"pipeline_id"`
	RunID         string        `json:"run_id"`
	Status        string        `json:"status"`
	DryRun        bool          `json:"dry_run"`
	StartedAt     time.Time     `json:"started_at"`
	Steps         []StepResult  `json:"steps"`
	TotalDuration time.Duration `json:"total_duration"`
	// FailedStep names the first failing step when Status is failed.
	FailedStep string `json:"failed_step,omitempty"`
	// Error carries a run-level failure such as a validation refusal.
	Error string `json:"error,omitempty"`
}

// StepResultFor returns the result recorded for a step id.
func (r *RunResult) StepResultFor(stepID string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.StepID == stepID {
			return s, true
		}
	}
	return StepResult{}, false
}
