package keyest

import (
	"context"
	"time"

	"github.com/autochroma/autochroma/internal/ffmpeg"
	"github.com/autochroma/autochroma/internal/model"
)

// sampleFraction places the sampled frame 10% into a video's duration,
// past intro fades but well before any outro.
const sampleFraction = 0.1

// RegionSampler abstracts single-region pixel decoding for testing.
type RegionSampler interface {
	SampleRegion(ctx context.Context, path, cropFilter string, seek time.Duration) (model.KeyColor, error)
}

// Estimator collects pixel samples from an asset and derives its key color.
type Estimator struct {
	sampler RegionSampler
}

// NewEstimator creates an Estimator. If sampler is nil, a default ffmpeg
// sampler is used.
func NewEstimator(sampler RegionSampler) *Estimator {
	if sampler == nil {
		sampler = ffmpeg.NewSampler("")
	}
	return &Estimator{sampler: sampler}
}

// sampleTime returns the frame timestamp for an asset: 10% into the
// duration for video, or a negative seek (none) for images.
func sampleTime(asset *model.Asset) time.Duration {
	if !asset.IsVideo() || asset.Duration <= 0 {
		return -1
	}
	return time.Duration(float64(asset.Duration) * sampleFraction)
}

// EstimateAsset samples the asset's corners and edge midpoints and returns
// the estimated key color along with the number of samples that decoded.
func (e *Estimator) EstimateAsset(ctx context.Context, asset *model.Asset) (model.KeyColor, int, error) {
	seek := sampleTime(asset)

	var samples []model.KeyColor
	for _, region := range ffmpeg.SampleRegions {
		color, err := e.sampler.SampleRegion(ctx, asset.Path, region, seek)
		if err != nil {
			// Individual regions may fall outside tiny frames; the
			// minimum-sample check below catches degenerate media.
			continue
		}
		samples = append(samples, color)
	}

	return Estimate(samples)
}
