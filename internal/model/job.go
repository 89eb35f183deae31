package model

import "time"

// JobStatus represents the current state of a render job.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobError    JobStatus = "error"
	JobCanceled JobStatus = "canceled"
)

// Terminal reports whether the status is final. Terminal jobs are never
// mutated again.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobError || s == JobCanceled
}

// LogTailCapacity is the fixed number of recent diagnostic lines kept per
// job, oldest evicted first.
const LogTailCapacity = 50

// LogTail is a bounded ordered buffer of the most recent diagnostic lines.
type LogTail struct {
	lines []string
	cap   int
}

// NewLogTail creates a tail with the given capacity, or LogTailCapacity if
// capacity is not positive.
func NewLogTail(capacity int) *LogTail {
	if capacity <= 0 {
		capacity = LogTailCapacity
	}
	return &LogTail{cap: capacity}
}

// Append adds a line, evicting the oldest when full.
func (t *LogTail) Append(line string) {
	if len(t.lines) == t.cap {
		copy(t.lines, t.lines[1:])
		t.lines[len(t.lines)-1] = line
		return
	}
	t.lines = append(t.lines, line)
}

// Lines returns a copy of the buffered lines in arrival order.
func (t *LogTail) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Last returns a copy of the most recent n lines.
func (t *LogTail) Last(n int) []string {
	if n >= len(t.lines) {
		return t.Lines()
	}
	out := make([]string, n)
	copy(out, t.lines[len(t.lines)-n:])
	return out
}

// Output describes the file a completed job produced.
type Output struct {
	Path string `json:"-"`
	Name string `json:"filename"`
	Size int64  `json:"size_bytes"`
}

// JobSnapshot is a consistent read-only view of a job, safe to retain after
// the job keeps mutating.
type JobSnapshot struct {
	ID         string     `json:"job_id"`
	AssetID    string     `json:"asset_id"`
	Status     JobStatus  `json:"status"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Output     *Output    `json:"output,omitempty"`
	LogTail    []string   `json:"last_log_lines"`
}

// Duration returns how long the job ran, or zero while unfinished.
func (s JobSnapshot) Duration() time.Duration {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(*s.StartedAt)
}
