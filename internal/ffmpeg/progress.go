package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ProgressParser turns the ffmpeg -progress line stream into a monotonically
// non-decreasing completion fraction. It holds only the last known output
// time, so an unbounded stream costs constant memory.
//
// ffmpeg reports out_time_ms in microseconds despite the name; out_time_us
// carries the same value under an honest key on newer builds.
type ProgressParser struct {
	total time.Duration
	last  float64
}

// NewProgressParser creates a parser for a stream of the given total
// duration. A non-positive total means progress cannot be derived from
// output time (image and preview modes) and ParseLine never reports.
func NewProgressParser(total time.Duration) *ProgressParser {
	return &ProgressParser{total: total}
}

// ParseLine consumes one diagnostic line. It returns the current fraction in
// [0, 1] and true when the line advanced (or restated) progress.
func (p *ProgressParser) ParseLine(line string) (float64, bool) {
	if p.total <= 0 {
		return 0, false
	}

	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false
	}

	switch key {
	case "out_time_ms", "out_time_us":
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		frac := min(1.0, float64(us)/float64(p.total.Microseconds()))
		if frac > p.last {
			p.last = frac
		}
		return p.last, true
	case "progress":
		if value == "end" {
			p.last = 1.0
			return p.last, true
		}
	}
	return 0, false
}

// Progress returns the last parsed fraction.
func (p *ProgressParser) Progress() float64 {
	return p.last
}
