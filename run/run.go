package run

import (
	"context"
	"sync"
	"time"

	"webpbatch/batch"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

// Progress is a point-in-time snapshot of how far a run has gotten.
type Progress struct {
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	CurrentFile string `json:"currentFile,omitempty"`
}

// FileFailure is one per-file failure kept for the run's detail log.
type FileFailure struct {
	File   string            `json:"file"`
	Kind   batch.FailureKind `json:"kind"`
	Reason string            `json:"reason"`
}

// Run is one batch conversion submitted to the Manager. Worker and API
// goroutines touch it concurrently, so all mutation goes through the
// lock-holding methods below and readers take Snapshot copies.
type Run struct {
	ID        string `json:"id"`
	Status    Status `json:"status"`
	SourceDir string `json:"sourceDir"`
	DestDir   string `json:"destDir"`
	Quality   int    `json:"quality"`

	Progress Progress       `json:"progress"`
	Failures []FileFailure  `json:"failures,omitempty"`
	Summary  *batch.Summary `json:"summary,omitempty"`
	Error    string         `json:"error,omitempty"`

	CreatedAt   time.Time `json:"createdAt"`
	StartedAt   time.Time `json:"startedAt,omitempty"`
	CompletedAt time.Time `json:"completedAt,omitempty"`

	mu         *sync.Mutex
	cancelFunc context.CancelFunc
}

func newRun(id, sourceDir, destDir string, quality int) *Run {
	return &Run{
		ID:        id,
		Status:    StatusQueued,
		SourceDir: sourceDir,
		DestDir:   destDir,
		Quality:   quality,
		CreatedAt: time.Now(),
		mu:        &sync.Mutex{},
	}
}

// Snapshot returns a copy safe to hand to JSON marshalling while the worker
// keeps mutating the original.
func (r *Run) Snapshot() Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r
	cp.cancelFunc = nil
	cp.Failures = append([]FileFailure(nil), r.Failures...)
	if r.Summary != nil {
		s := *r.Summary
		cp.Summary = &s
	}
	return cp
}

func (r *Run) CurrentStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status
}

func (r *Run) setCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelFunc = cancel
}

// beginProcessing transitions the run to processing unless it was canceled
// while it sat in the queue. The check and the transition share one
// critical section so a concurrent queued-cancel can never be overwritten.
func (r *Run) beginProcessing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status == StatusCanceled {
		return false
	}
	r.Status = StatusProcessing
	r.StartedAt = time.Now()
	return true
}

func (r *Run) finish(status Status, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Error = errMsg
	r.CompletedAt = time.Now()
}

// runObserver feeds engine events into the Run record. The engine calls it
// sequentially, so each callback only has to take the run's lock.
type runObserver struct {
	r *Run
}

func (o *runObserver) OnProgress(completed, total int, current batch.Task) {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	o.r.Progress = Progress{Completed: completed, Total: total, CurrentFile: current.Source}
}

func (o *runObserver) OnResult(res batch.Result) {
	if res.Outcome != batch.OutcomeFailed {
		return
	}
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	o.r.Failures = append(o.r.Failures, FileFailure{
		File:   res.Task.Source,
		Kind:   res.Kind,
		Reason: res.Reason,
	})
}

func (o *runObserver) OnComplete(sum batch.Summary) {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	o.r.Summary = &sum
	o.r.Progress.CurrentFile = ""
}
