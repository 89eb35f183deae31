package ffmpeg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressParser_OutTime(t *testing.T) {
	p := NewProgressParser(10 * time.Second)

	frac, ok := p.ParseLine("out_time_ms=2500000")
	assert.True(t, ok)
	assert.InDelta(t, 0.25, frac, 1e-9)

	frac, ok = p.ParseLine("out_time_ms=5000000")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, frac, 1e-9)
}

func TestProgressParser_NeverRegresses(t *testing.T) {
	p := NewProgressParser(10 * time.Second)

	_, _ = p.ParseLine("out_time_ms=5000000")
	frac, ok := p.ParseLine("out_time_ms=1000000")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, frac, 1e-9)
}

func TestProgressParser_CapsAtOne(t *testing.T) {
	p := NewProgressParser(10 * time.Second)

	frac, ok := p.ParseLine("out_time_ms=99000000")
	assert.True(t, ok)
	assert.Equal(t, 1.0, frac)
}

func TestProgressParser_End(t *testing.T) {
	p := NewProgressParser(10 * time.Second)

	frac, ok := p.ParseLine("progress=end")
	assert.True(t, ok)
	assert.Equal(t, 1.0, frac)
}

func TestProgressParser_IgnoresOtherLines(t *testing.T) {
	p := NewProgressParser(10 * time.Second)

	for _, line := range []string{
		"frame=120",
		"fps=30.2",
		"progress=continue",
		"out_time_ms=garbage",
		"out_time_ms=-5",
		"random noise",
		"",
	} {
		_, ok := p.ParseLine(line)
		assert.False(t, ok, "line %q should not report progress", line)
	}
	assert.Equal(t, 0.0, p.Progress())
}

// Image and preview renders have no intrinsic duration; the parser stays
// silent and progress remains binary at the supervisor level.
func TestProgressParser_ZeroTotal(t *testing.T) {
	p := NewProgressParser(0)

	_, ok := p.ParseLine("out_time_ms=1000000")
	assert.False(t, ok)
	_, ok = p.ParseLine("progress=end")
	assert.False(t, ok)
}

func TestProgressParser_OutTimeUs(t *testing.T) {
	p := NewProgressParser(4 * time.Second)

	frac, ok := p.ParseLine("out_time_us=1000000")
	assert.True(t, ok)
	assert.InDelta(t, 0.25, frac, 1e-9)
}
