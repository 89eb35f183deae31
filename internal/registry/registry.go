// Package registry owns the authoritative state of every render job: it
// enforces the job state machine, mediates concurrent access, supervises
// the encoder process for each job, and exposes cancellation.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/autochroma/autochroma/internal/model"
	"github.com/autochroma/autochroma/internal/supervise"
)

// failureContextLines is how many trailing log lines are attached to a
// runtime failure message.
const failureContextLines = 10

// Plan is a fully validated render invocation. The engine builds it
// synchronously so every caller error surfaces before a job exists.
type Plan struct {
	JobID   string
	AssetID string

	EncoderPath string
	Args        []string

	// Total is the input duration driving progress; zero for image
	// renders (binary progress).
	Total time.Duration

	OutputPath string
	LogPath    string
}

// starter launches one encoder process. Injected for testing; production
// uses the supervise package.
type starter func(spec supervise.Spec) (processHandle, error)

// Recorder receives job lifecycle events for metrics. started reports
// whether the job ever reached running; jobs canceled while queued and
// launch failures finish without starting.
type Recorder interface {
	JobStarted()
	JobFinished(status model.JobStatus, duration time.Duration, started bool)
}

type nopRecorder struct{}

func (nopRecorder) JobStarted()                                      {}
func (nopRecorder) JobFinished(model.JobStatus, time.Duration, bool) {}

// Options configures a Registry.
type Options struct {
	// MaxConcurrent bounds simultaneously running encoder processes.
	// Zero or negative falls back to the number of CPUs.
	MaxConcurrent int

	// GracePeriod is forwarded to the supervisor's cancel escalation.
	GracePeriod time.Duration

	Logger  zerolog.Logger
	Metrics Recorder
}

// Registry is the single source of truth for concurrently running jobs.
// The registry lock only guards map membership; each entry carries its own
// mutex so unrelated jobs never serialize on one another.
type Registry struct {
	start   starter
	sem     *semaphore.Weighted
	grace   time.Duration
	log     zerolog.Logger
	metrics Recorder

	mu   sync.RWMutex
	jobs map[string]*entry
}

// New creates a Registry.
func New(opts Options) *Registry {
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Registry{
		start: func(spec supervise.Spec) (processHandle, error) {
			h, err := supervise.Start(context.Background(), spec)
			if err != nil {
				return nil, err
			}
			return superviseHandle{h}, nil
		},
		sem:     semaphore.NewWeighted(int64(limit)),
		grace:   opts.GracePeriod,
		log:     opts.Logger,
		metrics: metrics,
		jobs:    make(map[string]*entry),
	}
}

// superviseHandle adapts supervise.Handle to the registry's view.
type superviseHandle struct {
	h *supervise.Handle
}

func (s superviseHandle) Cancel() { s.h.Cancel() }

func (s superviseHandle) Done() <-chan Result {
	out := make(chan Result, 1)
	go func() {
		res := <-s.h.Done()
		out <- Result(res)
	}()
	return out
}

// Start registers a queued job for the given plan and launches its worker
// goroutine. The job runs until terminal regardless of the caller's
// lifetime; execution-time failures are recorded on the job, never
// returned here.
func (r *Registry) Start(plan Plan) (model.JobSnapshot, error) {
	if plan.JobID == "" || plan.AssetID == "" {
		return model.JobSnapshot{}, fmt.Errorf("%w: plan is missing identifiers", model.ErrInvalidParameter)
	}

	e := newEntry(plan.JobID, plan.AssetID)

	admission, cancelAdmission := context.WithCancel(context.Background())
	e.cancelQueued = cancelAdmission

	r.mu.Lock()
	if _, exists := r.jobs[plan.JobID]; exists {
		r.mu.Unlock()
		cancelAdmission()
		return model.JobSnapshot{}, fmt.Errorf("%w: duplicate job id %s", model.ErrInvalidParameter, plan.JobID)
	}
	r.jobs[plan.JobID] = e
	r.mu.Unlock()

	r.log.Info().
		Str("job_id", plan.JobID).
		Str("asset_id", plan.AssetID).
		Msg("job created")

	go r.run(e, plan, admission)

	return e.snapshot(), nil
}

// Get returns a consistent snapshot of the job.
func (r *Registry) Get(jobID string) (model.JobSnapshot, error) {
	e, err := r.lookup(jobID)
	if err != nil {
		return model.JobSnapshot{}, err
	}
	return e.snapshot(), nil
}

// List returns snapshots of all jobs, newest first.
func (r *Registry) List() []model.JobSnapshot {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.jobs))
	for _, e := range r.jobs {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]model.JobSnapshot, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Cancel requests termination of a job. A queued job is canceled without
// ever spawning a process; a running job transitions to canceled once its
// process has actually exited. Cancel on a terminal job is a no-op that
// reports the existing status.
func (r *Registry) Cancel(jobID string) (model.JobSnapshot, error) {
	e, err := r.lookup(jobID)
	if err != nil {
		return model.JobSnapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.status.Terminal():
		// Idempotent no-op.
	case e.status == model.JobQueued:
		e.cancelRequested = true
		e.finishLocked(model.JobCanceled, "canceled before start")
		if e.cancelQueued != nil {
			e.cancelQueued()
		}
		r.metrics.JobFinished(model.JobCanceled, 0, false)
		r.log.Info().Str("job_id", jobID).Msg("queued job canceled")
	default: // running
		e.cancelRequested = true
		e.handle.Cancel()
		r.log.Info().Str("job_id", jobID).Msg("cancel requested for running job")
	}

	return e.snapshotLocked(), nil
}

func (r *Registry) lookup(jobID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrJobNotFound, jobID)
	}
	return e, nil
}

// run drives one job from queued to a terminal state. It owns the entry for
// the whole execution; all other mutation paths go through Cancel.
func (r *Registry) run(e *entry, plan Plan, admission context.Context) {
	defer e.cancelQueued()

	if err := r.sem.Acquire(admission, 1); err != nil {
		// Canceled while waiting for admission; Cancel already moved the
		// job to canceled.
		return
	}
	defer r.sem.Release(1)

	// Launch under the entry lock: the queued->running transition and the
	// process handle must change together, and a job canceled in the
	// admission window must stay untouched (no log file, no tail lines).
	e.mu.Lock()
	if e.cancelRequested || e.status.Terminal() {
		e.mu.Unlock()
		return
	}

	logFile, logErr := os.Create(plan.LogPath)
	if logErr == nil {
		defer logFile.Close()
	}

	onLine := func(line string) {
		e.appendLog(line)
		if logErr == nil {
			fmt.Fprintln(logFile, line)
		}
	}

	cmdLine := "Command: " + plan.EncoderPath + " " + strings.Join(plan.Args, " ")
	e.logTail.Append(cmdLine)
	if logErr == nil {
		fmt.Fprintln(logFile, cmdLine)
	}

	handle, err := r.start(supervise.Spec{
		Path:        plan.EncoderPath,
		Args:        plan.Args,
		OnLine:      onLine,
		OnProgress:  e.setProgress,
		Total:       plan.Total,
		GracePeriod: r.grace,
	})
	if err != nil {
		e.finishLocked(model.JobError, err.Error())
		e.mu.Unlock()
		r.log.Error().Str("job_id", e.id).Err(err).Msg("encoder launch failed")
		r.metrics.JobFinished(model.JobError, 0, false)
		return
	}

	now := time.Now()
	e.status = model.JobRunning
	e.startedAt = &now
	e.handle = handle
	e.mu.Unlock()

	r.metrics.JobStarted()
	r.log.Info().Str("job_id", e.id).Msg("job running")

	res := <-handle.Done()
	r.finish(e, plan, res)
}

// finish reaps the result and performs the terminal transition.
func (r *Registry) finish(e *entry, plan Plan, res Result) {
	e.mu.Lock()

	var status model.JobStatus
	var message string

	switch {
	case e.cancelRequested:
		status = model.JobCanceled
		message = "canceled by user"
		if res.ForcedKill {
			message = "canceled by user (encoder ignored termination signal and was killed)"
		}
	case res.ExitCode == 0:
		if size, err := outputSize(plan.OutputPath); err != nil {
			status = model.JobError
			message = "encoder reported success but produced no output"
		} else {
			status = model.JobDone
			message = "render completed successfully"
			e.progress = 1.0
			e.output = &model.Output{
				Path: plan.OutputPath,
				Name: filepath.Base(plan.OutputPath),
				Size: size,
			}
		}
	default:
		status = model.JobError
		message = (&model.EncoderRuntimeError{
			ExitCode: res.ExitCode,
			LogTail:  e.logTail.Last(failureContextLines),
		}).Error()
	}

	e.finishLocked(status, message)
	e.mu.Unlock()

	evt := r.log.Info()
	if status == model.JobError {
		evt = r.log.Error()
	}
	if res.ForcedKill {
		r.log.Warn().Str("job_id", e.id).Msg("encoder required SIGKILL after grace period")
	}
	evt.Str("job_id", e.id).
		Str("status", string(status)).
		Dur("encoder_duration", res.Duration).
		Int("exit_code", res.ExitCode).
		Msg("job finished")

	r.metrics.JobFinished(status, res.Duration, true)
}

func outputSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("empty output file")
	}
	return info.Size(), nil
}
