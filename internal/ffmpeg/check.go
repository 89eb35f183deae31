package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
)

// ToolInfo reports encoder tool availability for diagnostics.
type ToolInfo struct {
	OK             bool   `json:"ok"`
	FFmpegVersion  string `json:"ffmpeg,omitempty"`
	FFprobeVersion string `json:"ffprobe,omitempty"`
	Message        string `json:"message,omitempty"`
}

// CheckTools verifies that ffmpeg and ffprobe are runnable and captures
// their version banners. Missing tools are reported, not returned as an
// error, so callers can degrade gracefully.
func CheckTools(ctx context.Context, ffmpegPath, ffprobePath string) ToolInfo {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	ffmpegVersion, err1 := versionBanner(ctx, ffmpegPath)
	ffprobeVersion, err2 := versionBanner(ctx, ffprobePath)

	if err1 != nil || err2 != nil {
		return ToolInfo{
			OK:      false,
			Message: "ffmpeg or ffprobe not found; install ffmpeg and ensure it is in PATH",
		}
	}

	return ToolInfo{
		OK:             true,
		FFmpegVersion:  ffmpegVersion,
		FFprobeVersion: ffprobeVersion,
	}
}

func versionBanner(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}
