// Package run owns background execution of batch conversions for the HTTP
// server: a registry of submitted runs, a worker loop draining a queue
// under a concurrency limit, cancellation, and retention of finished runs.
package run

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"webpbatch/batch"
	"webpbatch/config"

	"github.com/lithammer/shortuuid/v4"
)

// Engine drives one batch conversion. batch.Runner is the real
// implementation; tests inject fakes.
type Engine interface {
	Run(ctx context.Context, sourceRoot, destRoot string, quality int, obs batch.Observer) (batch.Summary, error)
}

// ResourceGate is consulted once per run, before processing starts.
type ResourceGate interface {
	Check(destDir string) error
}

type Manager struct {
	cfg            *config.Config
	runs           sync.Map // run ID -> *Run
	runQueue       chan *Run
	concurrencySem chan struct{}
	engine         Engine
	gate           ResourceGate
}

// NewManager wires a manager around an engine. gate may be nil to disable
// resource throttling.
func NewManager(cfg *config.Config, engine Engine, gate ResourceGate) (*Manager, error) {
	if engine == nil {
		return nil, errors.New("run manager needs an engine")
	}
	return &Manager{
		cfg:            cfg,
		runQueue:       make(chan *Run, 100),
		concurrencySem: make(chan struct{}, cfg.MaxConcurrency),
		engine:         engine,
		gate:           gate,
	}, nil
}

func (m *Manager) Start(ctx context.Context) {
	log.Println("Run manager started. Concurrency limit:", m.cfg.MaxConcurrency)
	go m.cleanupLoop(ctx)
	go m.workerLoop(ctx)
}

// workerLoop pulls runs from the queue and processes them.
func (m *Manager) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("Worker loop shutting down.")
			return
		case r := <-m.runQueue:
			// Wait for a free processing slot.
			m.concurrencySem <- struct{}{}
			go func(r *Run) {
				defer func() { <-m.concurrencySem }() // Release slot
				m.processRun(ctx, r)
			}(r)
		}
	}
}

// processRun executes one queued run end to end.
func (m *Manager) processRun(parentCtx context.Context, r *Run) {
	runCtx, cancel := context.WithCancel(parentCtx)
	r.setCancel(cancel)
	defer cancel()

	// The run may have been canceled while it sat in the queue.
	if !r.beginProcessing() {
		log.Printf("Run %s was canceled before processing.", r.ID)
		return
	}

	if m.gate != nil {
		if err := m.gate.Check(r.DestDir); err != nil {
			log.Printf("Run %s rejected: %v", r.ID, err)
			r.finish(StatusFailed, fmt.Sprintf("insufficient system resources: %v", err))
			return
		}
	}

	log.Printf("Processing run %s: %s -> %s (quality %d)", r.ID, r.SourceDir, r.DestDir, r.Quality)

	sum, err := m.engine.Run(runCtx, r.SourceDir, r.DestDir, r.Quality, &runObserver{r: r})
	switch {
	case err != nil:
		log.Printf("Run %s failed: %v", r.ID, err)
		r.finish(StatusFailed, err.Error())
	case sum.Canceled:
		log.Printf("Run %s canceled after %d of %d files.", r.ID, sum.Succeeded+sum.Failed, sum.Total)
		r.finish(StatusCanceled, "run was canceled")
	default:
		log.Printf("Run %s completed: %d succeeded, %d failed.", r.ID, sum.Succeeded, sum.Failed)
		r.finish(StatusCompleted, "")
	}
}

// cleanupLoop evicts finished run records after the configured lifetime.
// Converted output files are the caller's artifacts and are never touched.
func (m *Manager) cleanupLoop(ctx context.Context) {
	if m.cfg.RunLifetime <= 0 {
		return // retention disabled
	}
	ticker := time.NewTicker(m.cfg.RunLifetime / 4) // Check 4 times per lifetime
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cleanup loop shutting down.")
			return
		case <-ticker.C:
			m.runs.Range(func(key, value interface{}) bool {
				r := value.(*Run)
				snap := r.Snapshot()
				if isFinished(snap.Status) && time.Since(snap.CompletedAt) > m.cfg.RunLifetime {
					log.Printf("Evicting finished run %s", snap.ID)
					m.runs.Delete(key)
				}
				return true
			})
		}
	}
}

func isFinished(s Status) bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

// Submit registers a new run and queues it for processing.
func (m *Manager) Submit(sourceDir, destDir string, quality int) (*Run, error) {
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 0 and 100, got %d", quality)
	}

	id := fmt.Sprintf("%s_%d", shortuuid.New(), time.Now().Unix())
	r := newRun(id, sourceDir, destDir, quality)

	m.runs.Store(r.ID, r)
	m.runQueue <- r
	log.Printf("Run %s submitted to queue.", r.ID)
	return r, nil
}

func (m *Manager) Get(runID string) (*Run, bool) {
	if val, ok := m.runs.Load(runID); ok {
		return val.(*Run), true
	}
	return nil, false
}

func (m *Manager) List() []*Run {
	var runList []*Run
	m.runs.Range(func(key, value interface{}) bool {
		runList = append(runList, value.(*Run))
		return true
	})
	return runList
}

// Cancel stops a queued or processing run. Queued runs are marked directly;
// processing runs get their context canceled and the engine stops at the
// next file boundary.
func (m *Manager) Cancel(runID string) error {
	val, ok := m.runs.Load(runID)
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}

	r := val.(*Run)
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.Status {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return fmt.Errorf("cannot cancel run in state: %s", r.Status)
	case StatusQueued:
		r.Status = StatusCanceled
		r.Error = "canceled by user while in queue"
		r.CompletedAt = time.Now()
		log.Printf("Run %s marked as canceled in queue.", r.ID)
	case StatusProcessing:
		if r.cancelFunc == nil {
			return fmt.Errorf("run %s is processing but has no cancellation handle", r.ID)
		}
		r.cancelFunc()
		log.Printf("Cancellation signal sent to running run %s.", r.ID)
	}
	return nil
}
