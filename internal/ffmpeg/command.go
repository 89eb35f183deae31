package ffmpeg

import (
	"fmt"
	"strconv"
	"time"

	"github.com/autochroma/autochroma/internal/model"
)

// seekEpsilon keeps preview seeks strictly before the end of the stream.
const seekEpsilon = 100 * time.Millisecond

// formatFloat renders a keying parameter without precision loss. A value of
// exactly 0 still yields "0" so the filter invocation stays valid.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// chromakeyFilter builds the chromakey filter expression shared by all
// three render modes.
func chromakeyFilter(color model.KeyColor, p model.KeyParams) string {
	return fmt.Sprintf("chromakey=0x%s:%s:%s", color.Hex(), formatFloat(p.Similarity), formatFloat(p.Blend))
}

// formatSeek renders a seek offset in seconds for -ss.
func formatSeek(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// PreviewSpec describes a single-frame preview render.
type PreviewSpec struct {
	InputPath  string
	OutputPath string
	Color      model.KeyColor
	Params     model.KeyParams

	// Seek selects the frame for video inputs; ignored when Duration is
	// zero (images). Clamped to [0, Duration-epsilon].
	Seek     time.Duration
	Duration time.Duration

	// MaxWidth is the downscale bound; aspect ratio is preserved.
	MaxWidth int
}

// PreviewArgs builds the argument list for a downscaled single-frame
// preview PNG with the keying filter applied.
func PreviewArgs(spec PreviewSpec) ([]string, error) {
	if err := spec.Params.Validate(); err != nil {
		return nil, err
	}
	if spec.MaxWidth <= 0 {
		return nil, fmt.Errorf("%w: preview max width must be positive, got %d", model.ErrInvalidParameter, spec.MaxWidth)
	}

	vf := fmt.Sprintf("%s,format=rgba,scale='min(%d,iw)':-1", chromakeyFilter(spec.Color, spec.Params), spec.MaxWidth)

	args := []string{"-y"}
	if spec.Duration > 0 {
		seek := spec.Seek
		if limit := spec.Duration - seekEpsilon; seek > limit {
			seek = limit
		}
		if seek < 0 {
			seek = 0
		}
		args = append(args, "-ss", formatSeek(seek))
	}

	args = append(args,
		"-i", spec.InputPath,
		"-vf", vf,
		"-frames:v", "1",
		"-f", "image2",
		spec.OutputPath,
	)
	return args, nil
}

// ImageRenderArgs builds the argument list for a full-resolution
// transparent PNG render of an image asset.
func ImageRenderArgs(inputPath, outputPath string, color model.KeyColor, p model.KeyParams) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	vf := chromakeyFilter(color, p) + ",format=rgba"

	return []string{
		"-y",
		"-i", inputPath,
		"-vf", vf,
		"-f", "image2",
		outputPath,
	}, nil
}

// VideoRenderArgs builds the argument list for a transparent VP9 WebM
// render. When includeAudio is set the original audio track is carried over
// as Opus; requesting audio on a silent asset is a caller error.
func VideoRenderArgs(inputPath, outputPath string, color model.KeyColor, p model.KeyParams, hasAudio bool) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.IncludeAudio && !hasAudio {
		return nil, fmt.Errorf("%w: audio requested but input has no audio track", model.ErrInvalidParameter)
	}

	vf := chromakeyFilter(color, p) + ",format=yuva420p"

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", vf,
		"-c:v", "libvpx-vp9",
		"-b:v", "0",
		"-crf", strconv.Itoa(p.EffectiveCRF()),
		"-auto-alt-ref", "0",
		"-pix_fmt", "yuva420p",
	}

	if p.IncludeAudio && hasAudio {
		args = append(args, "-c:a", "libopus", "-b:a", "128k")
	} else {
		args = append(args, "-an")
	}

	args = append(args,
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	)
	return args, nil
}
