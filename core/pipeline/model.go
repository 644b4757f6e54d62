package pipeline

// StepType names what a step does.
type StepType string

const (
	// StepCollect gathers entities from devices into the run context.
	StepCollect StepType = "collect"
	// StepSync reconciles collected entities against the registry.
	StepSync StepType = "sync"
	// StepExport writes collected entities to a file or object storage.
	StepExport StepType = "export"
)

// StepStatus is the runtime state of a step within a run. Enabled steps
// start pending and move through running to exactly one terminal state.
type StepStatus string

const (
	StatusPending   StepStatus = "pending"
	StatusRunning   StepStatus = "running"
	StatusCompleted StepStatus = "completed"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
)

// Step is one unit of work inside a pipeline.
type Step struct {
	// ID identifies the step within its pipeline.
	ID string `json:"id" yaml:"id"`

	// Type selects the step behavior: collect, sync or export.
	Type StepType `json:"type" yaml:"type"`

	// Target names what the step works on: a collector name for collect
	// steps, an entity category for sync and export steps.
	Target string `json:"target" yaml:"target"`

	// Enabled steps run; disabled steps are ignored entirely.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Options is the free-form option bag. Sync steps understand "cleanup",
	// "update_existing", "site", "tenant" and a nested "collect_options"
	// map; collect steps pass their bag to the collector; export steps
	// understand "format".
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`

	// DependsOn lists step ids that must complete before this step runs.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Pipeline is a persisted, declarative run definition.
type Pipeline struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

// EnabledSteps returns the steps that take part in a run, in declared order.
func (p Pipeline) EnabledSteps() []Step {
	steps := make([]Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		if s.Enabled {
			steps = append(steps, s)
		}
	}
	return steps
}
