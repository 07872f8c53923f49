package batch

import "time"

// Outcome tags the result of one conversion task.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// FailureKind classifies what step of the per-file pipeline failed.
type FailureKind string

const (
	FailureInvalidPath FailureKind = "invalid_path"
	FailureMkdir       FailureKind = "mkdir"
	FailureConvert     FailureKind = "convert"
)

// Task is one unit of work: a source PNG and the destination WebP path
// computed for it. Dest is empty when path mapping itself failed.
type Task struct {
	Source string `json:"source"`
	Dest   string `json:"dest,omitempty"`
}

// Result is the outcome of one task. Reason carries the underlying error
// text when the outcome is failed.
type Result struct {
	Task    Task        `json:"task"`
	Outcome Outcome     `json:"outcome"`
	Kind    FailureKind `json:"kind,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// Summary aggregates a finished batch run.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Canceled  bool          `json:"canceled,omitempty"`
	Duration  time.Duration `json:"duration"`
}

func failure(t Task, kind FailureKind, err error) Result {
	return Result{Task: t, Outcome: OutcomeFailed, Kind: kind, Reason: err.Error()}
}

func success(t Task) Result {
	return Result{Task: t, Outcome: OutcomeSucceeded}
}
