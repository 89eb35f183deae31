// Package keyest estimates the background key color of an asset by sampling
// frame corners and edge midpoints.
package keyest

import (
	"fmt"

	"github.com/autochroma/autochroma/internal/model"
)

// MinSamples is the minimum number of pixel samples required for an
// estimate. Degenerate media (1x1 frames) cannot produce enough regions.
const MinSamples = 4

// quantStep collapses adjacent channel values into one bucket to absorb
// sensor and compression noise.
const quantStep = 8

// quantize rounds a channel value to the nearest multiple of quantStep,
// clamped to the valid range.
func quantize(v uint8) uint8 {
	q := (int(v) + quantStep/2) / quantStep * quantStep
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

// Estimate returns the most frequent quantized color among the samples and
// the number of samples used. Ties are broken by first-encountered order.
func Estimate(samples []model.KeyColor) (model.KeyColor, int, error) {
	if len(samples) < MinSamples {
		return model.KeyColor{}, 0, fmt.Errorf("%w: got %d samples, need at least %d", model.ErrInsufficientSamples, len(samples), MinSamples)
	}

	counts := make(map[model.KeyColor]int, len(samples))
	var order []model.KeyColor
	for _, s := range samples {
		q := model.KeyColor{R: quantize(s.R), G: quantize(s.G), B: quantize(s.B)}
		if counts[q] == 0 {
			order = append(order, q)
		}
		counts[q]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return best, len(samples), nil
}
