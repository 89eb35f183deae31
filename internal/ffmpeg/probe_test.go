package ffmpeg

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber returns a Prober whose ffprobe invocation just echoes the
// given JSON document.
func fakeProber(doc string) *Prober {
	return &Prober{
		ffprobePath: "ffprobe",
		execCommand: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "echo", doc)
		},
	}
}

func TestProbeVideo_ParsesOutput(t *testing.T) {
	p := fakeProber(`{
		"format": {"duration": "10.5"},
		"streams": [
			{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
			{"codec_type": "audio"}
		]
	}`)

	meta, err := p.ProbeVideo(context.Background(), "test.mp4")
	require.NoError(t, err)

	assert.Equal(t, 10500*time.Millisecond, meta.Duration)
	assert.Equal(t, 1920, meta.Width)
	assert.Equal(t, 1080, meta.Height)
	assert.InDelta(t, 29.97, meta.FPS, 0.001)
	assert.True(t, meta.HasAudio)
}

func TestProbeVideo_NoVideoStream(t *testing.T) {
	p := fakeProber(`{"streams": [{"codec_type": "audio"}]}`)

	_, err := p.ProbeVideo(context.Background(), "test.mp4")
	assert.ErrorContains(t, err, "no video stream")
}

func TestProbeVideo_FallsBackToStreamDuration(t *testing.T) {
	p := fakeProber(`{
		"streams": [{"codec_type": "video", "width": 640, "height": 480, "duration": "4.0", "r_frame_rate": "25/1"}]
	}`)

	meta, err := p.ProbeVideo(context.Background(), "test.mp4")
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, meta.Duration)
	assert.False(t, meta.HasAudio)
}

func TestProbeImage_ParsesOutput(t *testing.T) {
	p := fakeProber(`{"streams": [{"codec_type": "video", "width": 800, "height": 600}]}`)

	meta, err := p.ProbeImage(context.Background(), "test.png")
	require.NoError(t, err)
	assert.Equal(t, 800, meta.Width)
	assert.Equal(t, 600, meta.Height)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97},
		{"25", 25},
		{"", 30},
		{"30/0", 30},
		{"bogus", 30},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseFrameRate(tt.input), 0.001, "input %q", tt.input)
	}
}
