package registry

import (
	"sync"
	"time"

	"github.com/autochroma/autochroma/internal/model"
)

// processHandle is the slice of supervise.Handle the registry needs,
// abstracted for testing.
type processHandle interface {
	Done() <-chan Result
	Cancel()
}

// Result mirrors the supervisor's terminal report.
type Result struct {
	ExitCode   int
	Duration   time.Duration
	ForcedKill bool
}

// entry owns the authoritative state of one job. All mutation happens under
// mu; status transitions and the process handle change together so no
// reader ever observes a running job without a live process or a queued job
// with one.
type entry struct {
	mu sync.Mutex

	id      string
	assetID string

	status     model.JobStatus
	progress   float64
	message    string
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	output     *model.Output
	logTail    *model.LogTail

	handle          processHandle
	cancelRequested bool
	cancelQueued    func() // wakes a job waiting for admission
}

func newEntry(id, assetID string) *entry {
	return &entry{
		id:        id,
		assetID:   assetID,
		status:    model.JobQueued,
		createdAt: time.Now(),
		logTail:   model.NewLogTail(0),
	}
}

// snapshotLocked builds a consistent copy. Callers must hold mu.
func (e *entry) snapshotLocked() model.JobSnapshot {
	return model.JobSnapshot{
		ID:         e.id,
		AssetID:    e.assetID,
		Status:     e.status,
		Progress:   e.progress,
		Message:    e.message,
		CreatedAt:  e.createdAt,
		StartedAt:  e.startedAt,
		FinishedAt: e.finishedAt,
		Output:     e.output,
		LogTail:    e.logTail.Lines(),
	}
}

func (e *entry) snapshot() model.JobSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// setProgress publishes a new fraction, never regressing and only while
// running.
func (e *entry) setProgress(f float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == model.JobRunning && f > e.progress {
		e.progress = f
	}
}

func (e *entry) appendLog(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logTail.Append(line)
}

// finishLocked moves the entry to a terminal state and releases the process
// handle. Callers must hold mu and must have reaped the process already.
func (e *entry) finishLocked(status model.JobStatus, message string) {
	now := time.Now()
	e.status = status
	e.message = message
	e.finishedAt = &now
	e.handle = nil
}
