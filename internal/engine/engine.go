// Package engine wires the asset store, key estimator, command builder and
// job registry into the caller-facing render operations.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/autochroma/autochroma/internal/ffmpeg"
	"github.com/autochroma/autochroma/internal/keyest"
	"github.com/autochroma/autochroma/internal/model"
	"github.com/autochroma/autochroma/internal/registry"
	"github.com/autochroma/autochroma/internal/store"
	"github.com/autochroma/autochroma/internal/supervise"
)

// DefaultPreviewWidth bounds preview downscaling when the caller does not
// ask for a specific width.
const DefaultPreviewWidth = 640

// previewTimeout caps synchronous single-frame renders.
const previewTimeout = 60 * time.Second

// Options configures an Engine.
type Options struct {
	FFmpegPath  string
	FFprobePath string

	Assets    *store.AssetStore
	Outputs   *store.OutputStore
	Registry  *registry.Registry
	Estimator *keyest.Estimator

	Logger zerolog.Logger
}

// Engine exposes the render job operations.
type Engine struct {
	ffmpegPath  string
	ffprobePath string

	assets    *store.AssetStore
	outputs   *store.OutputStore
	registry  *registry.Registry
	estimator *keyest.Estimator

	log zerolog.Logger
}

// New creates an Engine from the assembled collaborators.
func New(opts Options) *Engine {
	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	ffprobePath := opts.FFprobePath
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Engine{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		assets:      opts.Assets,
		outputs:     opts.Outputs,
		registry:    opts.Registry,
		estimator:   opts.Estimator,
		log:         opts.Logger,
	}
}

// Assets returns the backing asset store.
func (e *Engine) Assets() *store.AssetStore {
	return e.assets
}

// Jobs returns all job snapshots, newest first.
func (e *Engine) Jobs() []model.JobSnapshot {
	return e.registry.List()
}

// CheckTools reports encoder tool availability.
func (e *Engine) CheckTools(ctx context.Context) ffmpeg.ToolInfo {
	return ffmpeg.CheckTools(ctx, e.ffmpegPath, e.ffprobePath)
}

// EstimateKey estimates the background key color of an asset.
func (e *Engine) EstimateKey(ctx context.Context, assetID string) (model.KeyColor, int, error) {
	asset, err := e.assets.Resolve(assetID)
	if err != nil {
		return model.KeyColor{}, 0, err
	}
	return e.estimator.EstimateAsset(ctx, asset)
}

// PreviewRequest describes a synchronous single-frame preview.
type PreviewRequest struct {
	Color  model.KeyColor
	Params model.KeyParams

	// Seek selects the previewed frame for videos; ignored for images.
	Seek time.Duration

	// MaxWidth bounds downscaling; DefaultPreviewWidth when zero.
	MaxWidth int
}

// Preview renders one keyed, downscaled frame and returns the path of the
// produced PNG. Unlike renders it runs synchronously and is not tracked as
// a job.
func (e *Engine) Preview(ctx context.Context, assetID string, req PreviewRequest) (string, error) {
	asset, err := e.assets.Resolve(assetID)
	if err != nil {
		return "", err
	}
	if err := req.Params.Validate(); err != nil {
		return "", err
	}

	maxWidth := req.MaxWidth
	if maxWidth == 0 {
		maxWidth = DefaultPreviewWidth
	}

	previewPath, err := e.outputs.PreviewPath(asset.ID)
	if err != nil {
		return "", err
	}

	args, err := ffmpeg.PreviewArgs(ffmpeg.PreviewSpec{
		InputPath:  asset.Path,
		OutputPath: previewPath,
		Color:      req.Color,
		Params:     req.Params,
		Seek:       req.Seek,
		Duration:   asset.Duration,
		MaxWidth:   maxWidth,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	tail := model.NewLogTail(10)
	handle, err := supervise.Start(ctx, supervise.Spec{
		Path:   e.ffmpegPath,
		Args:   args,
		OnLine: tail.Append,
	})
	if err != nil {
		return "", err
	}

	res := <-handle.Done()
	if res.ExitCode != 0 {
		return "", fmt.Errorf("preview generation failed: %s", strings.Join(tail.Lines(), " | "))
	}
	return previewPath, nil
}

// StartRender validates the request and creates a render job. Validation
// and lookup errors surface here, synchronously; once a snapshot is
// returned all further failures are recorded on the job.
func (e *Engine) StartRender(assetID string, color model.KeyColor, params model.KeyParams) (model.JobSnapshot, error) {
	asset, err := e.assets.Resolve(assetID)
	if err != nil {
		return model.JobSnapshot{}, err
	}
	if err := params.ValidateForAsset(asset); err != nil {
		return model.JobSnapshot{}, err
	}

	jobID := uuid.NewString()

	ext := "png"
	if asset.IsVideo() {
		ext = "webm"
	}
	outputPath, err := e.outputs.OutputPath(jobID, ext)
	if err != nil {
		return model.JobSnapshot{}, err
	}
	logPath, err := e.outputs.LogPath(jobID)
	if err != nil {
		return model.JobSnapshot{}, err
	}

	var args []string
	var total time.Duration
	if asset.IsVideo() {
		args, err = ffmpeg.VideoRenderArgs(asset.Path, outputPath, color, params, asset.HasAudio)
		total = asset.Duration
	} else {
		args, err = ffmpeg.ImageRenderArgs(asset.Path, outputPath, color, params)
	}
	if err != nil {
		return model.JobSnapshot{}, err
	}

	return e.registry.Start(registry.Plan{
		JobID:       jobID,
		AssetID:     asset.ID,
		EncoderPath: e.ffmpegPath,
		Args:        args,
		Total:       total,
		OutputPath:  outputPath,
		LogPath:     logPath,
	})
}

// JobStatus returns the current snapshot of a job.
func (e *Engine) JobStatus(jobID string) (model.JobSnapshot, error) {
	return e.registry.Get(jobID)
}

// CancelJob requests cancellation and returns the resulting snapshot.
func (e *Engine) CancelJob(jobID string) (model.JobSnapshot, error) {
	return e.registry.Cancel(jobID)
}

// OpenOutput returns the output file path of a completed job.
func (e *Engine) OpenOutput(jobID string) (string, error) {
	snap, err := e.registry.Get(jobID)
	if err != nil {
		return "", err
	}
	if snap.Status != model.JobDone || snap.Output == nil {
		return "", fmt.Errorf("%w: job %s has no output (status %s)", model.ErrInvalidParameter, jobID, snap.Status)
	}
	return snap.Output.Path, nil
}
