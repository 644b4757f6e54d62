package models

import (
	"time"

	"fabric-sync/core/pipeline"
)

// Run is one persisted pipeline run.
type Run struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	PipelineID string    `gorm:"column:pipeline_id;size:128;index" json:"pipeline_id"`
	Status     string    `gorm:"column:status;size:16" json:"status"`
	DryRun     bool      `gorm:"column:dry_run" json:"dry_run"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	DurationMS int64     `gorm:"column:duration_ms" json:"duration_ms"`
	FailedStep string    `gorm:"column:failed_step;size:128" json:"failed_step,omitempty"`
	Error      string    `gorm:"column:error;type:text" json:"error,omitempty"`
	// Steps holds the per-step results as a JSON document.
	Steps string `gorm:"column:steps;type:text" json:"-"`
}

// TableName sets the table name for the Run model.
func (Run) TableName() string {
	return "runs"
}

// RunDetail is a Run with its step results decoded for API responses.
type RunDetail struct {
	Run
	Steps []pipeline.StepResult `json:"steps"`
}
