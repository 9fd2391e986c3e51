package model

import "time"

// RunStatus represents the lifecycle state of an analysis run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// Run is the persisted record of one engine execution.
type Run struct {
	ID               string            `json:"id"`
	Company          Company           `json:"company"`
	Status           RunStatus         `json:"status"`
	Progress         int               `json:"progress"`
	CurrentStep      string            `json:"currentStep"`
	Results          []AnalysisResult  `json:"results"`
	ExecutiveSummary *ExecutiveSummary `json:"executiveSummary,omitempty"`
	Error            string            `json:"error,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastUpdated      time.Time         `json:"lastUpdated"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
}

// RunPatch is a partial update to a Run. Nil fields are left unchanged.
type RunPatch struct {
	Progress         *int              `json:"progress,omitempty"`
	CurrentStep      *string           `json:"currentStep,omitempty"`
	Status           *RunStatus        `json:"status,omitempty"`
	Results          []AnalysisResult  `json:"results,omitempty"`
	ExecutiveSummary *ExecutiveSummary `json:"executiveSummary,omitempty"`
	Error            *string           `json:"error,omitempty"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
}

// Apply merges p into r. Progress never moves backwards and a terminal
// status is never overwritten.
func (p RunPatch) Apply(r *Run, now time.Time) {
	if p.Progress != nil && *p.Progress > r.Progress {
		r.Progress = min(*p.Progress, 100)
	}
	if p.CurrentStep != nil {
		r.CurrentStep = *p.CurrentStep
	}
	if p.Status != nil && !r.Status.Terminal() {
		r.Status = *p.Status
	}
	if p.Results != nil {
		r.Results = p.Results
	}
	if p.ExecutiveSummary != nil {
		r.ExecutiveSummary = p.ExecutiveSummary
	}
	if p.Error != nil {
		r.Error = *p.Error
	}
	if p.CompletedAt != nil {
		r.CompletedAt = p.CompletedAt
	}
	r.LastUpdated = now
}

// ProgressPatch builds a progress/step update.
func ProgressPatch(progress int, step string) RunPatch {
	return RunPatch{Progress: &progress, CurrentStep: &step}
}

// StatusPatch builds a status-only update.
func StatusPatch(status RunStatus) RunPatch {
	return RunPatch{Status: &status}
}
