package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/autochroma/autochroma/internal/model"
)

// regionSize is the edge length of each sampled patch in pixels.
const regionSize = 20

// SampleRegions are the crop filters for the estimator's sample patches:
// the four corners followed by the top, bottom, left and right edge
// midpoints. Each patch is regionSize pixels square and is averaged down
// to a single pixel.
var SampleRegions = buildRegions(regionSize)

func buildRegions(n int) []string {
	return []string{
		fmt.Sprintf("crop=%d:%d:0:0", n, n),
		fmt.Sprintf("crop=%d:%d:iw-%d:0", n, n, n),
		fmt.Sprintf("crop=%d:%d:0:ih-%d", n, n, n),
		fmt.Sprintf("crop=%d:%d:iw-%d:ih-%d", n, n, n, n),
		fmt.Sprintf("crop=%d:%d:(iw-%d)/2:0", n, n, n),
		fmt.Sprintf("crop=%d:%d:(iw-%d)/2:ih-%d", n, n, n, n),
		fmt.Sprintf("crop=%d:%d:0:(ih-%d)/2", n, n, n),
		fmt.Sprintf("crop=%d:%d:iw-%d:(ih-%d)/2", n, n, n, n),
	}
}

// Sampler decodes single averaged pixels from frame regions via ffmpeg.
type Sampler struct {
	ffmpegPath string
	// execCommand allows injection of command execution for testing
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewSampler creates a Sampler. If ffmpegPath is empty, uses "ffmpeg" from
// PATH.
func NewSampler(ffmpegPath string) *Sampler {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Sampler{
		ffmpegPath:  ffmpegPath,
		execCommand: exec.CommandContext,
	}
}

// SampleRegion decodes the average color of one crop region. seek selects
// the frame for videos; pass a negative seek for images.
func (s *Sampler) SampleRegion(ctx context.Context, path, cropFilter string, seek time.Duration) (model.KeyColor, error) {
	args := []string{}
	if seek >= 0 {
		args = append(args, "-ss", formatSeek(seek))
	}
	args = append(args,
		"-i", path,
		"-vf", fmt.Sprintf("%s,scale=1:1", cropFilter),
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)

	cmd := s.execCommand(ctx, s.ffmpegPath, args...)
	out, err := cmd.Output()
	if err != nil {
		return model.KeyColor{}, fmt.Errorf("sample decode failed: %w", err)
	}
	if len(out) < 3 {
		return model.KeyColor{}, fmt.Errorf("sample decode produced %d bytes, want 3", len(out))
	}

	return model.KeyColor{R: out[0], G: out[1], B: out[2]}, nil
}
