// Package supervise launches the encoder binary as a child process, streams
// its diagnostic output, and enforces cancellation over the whole process
// group.
package supervise

import (
	"bufio"
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/autochroma/autochroma/internal/ffmpeg"
	"github.com/autochroma/autochroma/internal/model"
)

// DefaultGracePeriod is how long Cancel waits after SIGTERM before
// escalating to SIGKILL.
const DefaultGracePeriod = 5 * time.Second

// Spec describes one encoder invocation.
type Spec struct {
	Path string   // encoder binary, e.g. "ffmpeg"
	Args []string // argument list from the command builder
	Dir  string   // working directory, empty for inherited

	// OnLine receives every raw diagnostic line verbatim, in arrival
	// order per stream. May be nil.
	OnLine func(line string)

	// OnProgress receives monotonically non-decreasing fractions parsed
	// from the progress stream. May be nil.
	OnProgress func(fraction float64)

	// Total is the input duration used to derive progress. Zero means
	// progress is binary (image and preview modes).
	Total time.Duration

	// GracePeriod overrides DefaultGracePeriod when positive.
	GracePeriod time.Duration
}

// Result is delivered on Handle.Done when the process has been reaped.
type Result struct {
	ExitCode   int
	Duration   time.Duration
	ForcedKill bool // process ignored SIGTERM and had to be killed
}

// Handle tracks one running encoder process.
type Handle struct {
	cmd    *exec.Cmd
	done   chan Result
	exited chan struct{} // closed once the process has been reaped
	grace  time.Duration

	mu         sync.Mutex
	finished   bool
	forcedKill bool
	canceled   bool
}

// Start launches the encoder in its own process group and begins streaming
// its output. A failure to spawn returns an EncoderLaunchError; anything
// after a successful spawn is reported through Done.
func Start(ctx context.Context, spec Spec) (*Handle, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &model.EncoderLaunchError{Binary: spec.Path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &model.EncoderLaunchError{Binary: spec.Path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &model.EncoderLaunchError{Binary: spec.Path, Err: err}
	}

	grace := spec.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	h := &Handle{
		cmd:    cmd,
		done:   make(chan Result, 1),
		exited: make(chan struct{}),
		grace:  grace,
	}

	started := time.Now()
	parser := ffmpeg.NewProgressParser(spec.Total)

	// Sinks are shared by both stream readers; serialize so callers do
	// not need thread-safe sinks.
	var sinkMu sync.Mutex
	emit := func(line string) {
		sinkMu.Lock()
		defer sinkMu.Unlock()
		if spec.OnLine != nil {
			spec.OnLine(line)
		}
		if frac, ok := parser.ParseLine(line); ok && spec.OnProgress != nil {
			spec.OnProgress(frac)
		}
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			emit(scanner.Text())
		}
	}()
	go func() {
		defer readers.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			emit(scanner.Text())
		}
	}()

	go func() {
		readers.Wait()
		err := cmd.Wait()

		h.mu.Lock()
		h.finished = true
		forced := h.forcedKill
		h.mu.Unlock()
		close(h.exited)

		exitCode := 0
		if err != nil {
			exitCode = -1
			if exitErr, ok := err.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
			}
		}

		h.done <- Result{
			ExitCode:   exitCode,
			Duration:   time.Since(started),
			ForcedKill: forced,
		}
	}()

	return h, nil
}

// Done returns the channel carrying the single terminal Result.
func (h *Handle) Done() <-chan Result {
	return h.done
}

// PID returns the child process id.
func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Cancel requests termination of the whole process group: SIGTERM first,
// then SIGKILL after the grace period. It is idempotent and a no-op once
// the process has been reaped. Cancel returns without waiting; observe
// Done for the actual exit.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.finished || h.canceled {
		h.mu.Unlock()
		return
	}
	h.canceled = true
	h.mu.Unlock()

	pid := h.PID()
	if pid <= 0 {
		return
	}
	terminateGroup(pid)

	go func() {
		timer := time.NewTimer(h.grace)
		defer timer.Stop()

		select {
		case <-h.exited:
			// Terminated within the grace period.
		case <-timer.C:
			h.mu.Lock()
			alive := !h.finished
			if alive {
				h.forcedKill = true
			}
			h.mu.Unlock()
			if alive {
				killGroup(pid)
			}
		}
	}()
}
