package keyest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochroma/autochroma/internal/model"
)

func TestEstimate_UniformSamples(t *testing.T) {
	green := model.KeyColor{G: 255}
	samples := []model.KeyColor{green, green, green, green, green, green}

	color, count, err := Estimate(samples)
	require.NoError(t, err)

	// 255 rounds up past the top of the channel range and is clamped.
	assert.Equal(t, model.KeyColor{G: 255}, color)
	assert.Equal(t, 6, count)
}

func TestEstimate_NoiseCollapsesIntoOneBucket(t *testing.T) {
	// Compression noise within the quantization step must not split the
	// majority color.
	samples := []model.KeyColor{
		{R: 1, G: 254, B: 2},
		{R: 0, G: 255, B: 0},
		{R: 2, G: 253, B: 1},
		{R: 3, G: 255, B: 3},
		{R: 200, G: 10, B: 10},
	}

	color, count, err := Estimate(samples)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, uint8(0), color.R)
	assert.GreaterOrEqual(t, color.G, uint8(248))
}

func TestEstimate_TieBrokenByFirstEncountered(t *testing.T) {
	red := model.KeyColor{R: 200}
	blue := model.KeyColor{B: 200}
	samples := []model.KeyColor{red, blue, red, blue}

	color, _, err := Estimate(samples)
	require.NoError(t, err)
	assert.Equal(t, red, color)
}

func TestEstimate_InsufficientSamples(t *testing.T) {
	samples := []model.KeyColor{{G: 255}, {G: 255}, {G: 255}}

	_, _, err := Estimate(samples)
	assert.ErrorIs(t, err, model.ErrInsufficientSamples)
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   uint8
		want uint8
	}{
		{0, 0},
		{3, 0},
		{4, 8},
		{8, 8},
		{11, 8},
		{252, 255}, // rounds to 256, clamped
		{255, 255},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quantize(tt.in), "quantize(%d)", tt.in)
	}
}
