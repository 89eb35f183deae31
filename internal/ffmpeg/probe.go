package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/autochroma/autochroma/internal/model"
)

// Prober extracts media metadata via ffprobe.
type Prober struct {
	ffprobePath string
	// execCommand allows injection of command execution for testing
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewProber creates a Prober. If ffprobePath is empty, uses "ffprobe" from
// PATH.
func NewProber(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{
		ffprobePath: ffprobePath,
		execCommand: exec.CommandContext,
	}
}

// probeOutput mirrors the ffprobe JSON document.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	RFrameRate string `json:"r_frame_rate"`
}

func (p *Prober) probe(ctx context.Context, path string, showFormat bool) (*probeOutput, error) {
	args := []string{"-v", "quiet", "-print_format", "json", "-show_streams"}
	if showFormat {
		args = append(args, "-show_format")
	}
	args = append(args, path)

	cmd := p.execCommand(ctx, p.ffprobePath, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var doc probeOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &doc, nil
}

// ProbeVideo returns video metadata for the file at path.
func (p *Prober) ProbeVideo(ctx context.Context, path string) (model.VideoMetadata, error) {
	doc, err := p.probe(ctx, path, true)
	if err != nil {
		return model.VideoMetadata{}, err
	}

	var video *probeStream
	hasAudio := false
	for i := range doc.Streams {
		switch doc.Streams[i].CodecType {
		case "video":
			if video == nil {
				video = &doc.Streams[i]
			}
		case "audio":
			hasAudio = true
		}
	}
	if video == nil {
		return model.VideoMetadata{}, fmt.Errorf("no video stream found in %s", path)
	}

	duration := parseSeconds(doc.Format.Duration)
	if duration == 0 {
		duration = parseSeconds(video.Duration)
	}

	return model.VideoMetadata{
		Duration: duration,
		Width:    video.Width,
		Height:   video.Height,
		FPS:      parseFrameRate(video.RFrameRate),
		HasAudio: hasAudio,
	}, nil
}

// ProbeImage returns image metadata for the file at path.
func (p *Prober) ProbeImage(ctx context.Context, path string) (model.ImageMetadata, error) {
	doc, err := p.probe(ctx, path, false)
	if err != nil {
		return model.ImageMetadata{}, err
	}

	for i := range doc.Streams {
		if doc.Streams[i].CodecType == "video" {
			return model.ImageMetadata{
				Width:  doc.Streams[i].Width,
				Height: doc.Streams[i].Height,
			}, nil
		}
	}
	return model.ImageMetadata{}, fmt.Errorf("no image stream found in %s", path)
}

func parseSeconds(s string) time.Duration {
	if s == "" || s == "N/A" {
		return 0
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// parseFrameRate parses ffprobe's rational frame rate ("30000/1001"),
// falling back to 30 when the denominator is zero or the field is absent.
func parseFrameRate(s string) float64 {
	if s == "" {
		return 30.0
	}
	num, den, found := strings.Cut(s, "/")
	if !found {
		if fps, err := strconv.ParseFloat(s, 64); err == nil {
			return fps
		}
		return 30.0
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 30.0
	}
	fps := n / d
	return float64(int(fps*100+0.5)) / 100
}
