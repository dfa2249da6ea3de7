package ledger

import "time"

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunHalted    RunStatus = "halted"
	RunFailed    RunStatus = "failed"
)

// Action is what happened to one record.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionRejected Action = "rejected"
	ActionFailed   Action = "failed"
	ActionWarning  Action = "warning"
)

// RunSpec describes a run about to start.
type RunSpec struct {
	SourcePath string
	DatabaseID string
	Mode       string
	DryRun     bool
}

// Totals counts record outcomes.
type Totals struct {
	Built   int `json:"built"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Run is one push invocation.
type Run struct {
	ID           string    `json:"id"`
	SourcePath   string    `json:"source_path"`
	DatabaseID   string    `json:"database_id,omitempty"`
	Mode         string    `json:"mode"`
	DryRun       bool      `json:"dry_run"`
	Status       RunStatus `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
	Totals       Totals    `json:"totals"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Event is one per-record entry of a run.
type Event struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	GedcomRef string    `json:"gedcom_ref,omitempty"`
	Action    Action    `json:"action"`
	PageID    string    `json:"page_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
