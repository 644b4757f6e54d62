package models

// Summary is the list view of a stored pipeline.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Enabled      bool   `json:"enabled"`
	StepCount    int    `json:"step_count"`
	EnabledSteps int    `json:"enabled_steps"`
	Valid        bool   `json:"valid"`
}

// ValidationReport is the outcome of validating one stored pipeline.
type ValidationReport struct {
	ID       string   `json:"id"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}
