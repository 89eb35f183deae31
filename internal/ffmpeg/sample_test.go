package ffmpeg

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochroma/autochroma/internal/model"
)

func TestSampleRegion_DecodesPixel(t *testing.T) {
	s := &Sampler{
		ffmpegPath: "ffmpeg",
		execCommand: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			// Emit three raw RGB bytes: pure green.
			return exec.CommandContext(ctx, "printf", `\x00\xff\x00`)
		},
	}

	color, err := s.SampleRegion(context.Background(), "in.mp4", "crop=20:20:0:0", time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.KeyColor{G: 255}, color)
}

func TestSampleRegion_ShortOutput(t *testing.T) {
	s := &Sampler{
		ffmpegPath: "ffmpeg",
		execCommand: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "printf", "")
		},
	}

	_, err := s.SampleRegion(context.Background(), "in.mp4", "crop=20:20:0:0", -1)
	assert.Error(t, err)
}

func TestSampleRegion_SeekArgs(t *testing.T) {
	var captured []string
	s := &Sampler{
		ffmpegPath: "ffmpeg",
		execCommand: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			captured = args
			return exec.CommandContext(ctx, "printf", `\x00\x00\x00`)
		},
	}

	_, err := s.SampleRegion(context.Background(), "in.mp4", "crop=20:20:0:0", 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"-ss", "1.5"}, captured[:2])

	_, err = s.SampleRegion(context.Background(), "in.png", "crop=20:20:0:0", -1)
	require.NoError(t, err)
	assert.NotContains(t, captured, "-ss")
}

func TestSampleRegions_CoversCornersAndEdges(t *testing.T) {
	assert.Equal(t, []string{
		"crop=20:20:0:0",
		"crop=20:20:iw-20:0",
		"crop=20:20:0:ih-20",
		"crop=20:20:iw-20:ih-20",
		"crop=20:20:(iw-20)/2:0",
		"crop=20:20:(iw-20)/2:ih-20",
		"crop=20:20:0:(ih-20)/2",
		"crop=20:20:iw-20:(ih-20)/2",
	}, SampleRegions)
}
