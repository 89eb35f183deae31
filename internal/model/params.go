package model

import "fmt"

const (
	// MaxSimilarity bounds the chromakey similarity tolerance.
	MaxSimilarity = 0.5
	// MaxBlend bounds the chromakey edge blend.
	MaxBlend = 0.5

	// MinCRF and MaxCRF bound the VP9 quality factor.
	MinCRF = 10
	MaxCRF = 63

	// DefaultCRF is used when the caller does not specify a quality factor.
	DefaultCRF = 24
)

// KeyParams are the caller-supplied chroma keying parameters. CRF and
// IncludeAudio only apply to video renders.
type KeyParams struct {
	Similarity   float64 `json:"similarity"`
	Blend        float64 `json:"blend"`
	CRF          int     `json:"crf,omitempty"`
	IncludeAudio bool    `json:"include_audio,omitempty"`
}

// Validate checks similarity/blend ranges. Out-of-range values are a caller
// error, never clamped.
func (p KeyParams) Validate() error {
	if p.Similarity < 0 || p.Similarity > MaxSimilarity {
		return fmt.Errorf("%w: similarity %v out of range [0, %v]", ErrInvalidParameter, p.Similarity, MaxSimilarity)
	}
	if p.Blend < 0 || p.Blend > MaxBlend {
		return fmt.Errorf("%w: blend %v out of range [0, %v]", ErrInvalidParameter, p.Blend, MaxBlend)
	}
	return nil
}

// ValidateForAsset additionally checks parameters against asset
// capabilities: CRF range for videos and audio inclusion on silent assets.
func (p KeyParams) ValidateForAsset(asset *Asset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if asset.IsVideo() {
		if p.CRF != 0 && (p.CRF < MinCRF || p.CRF > MaxCRF) {
			return fmt.Errorf("%w: crf %d out of range [%d, %d]", ErrInvalidParameter, p.CRF, MinCRF, MaxCRF)
		}
		if p.IncludeAudio && !asset.HasAudio {
			return fmt.Errorf("%w: include_audio requested but asset %s has no audio track", ErrInvalidParameter, asset.ID)
		}
	}
	return nil
}

// EffectiveCRF returns the quality factor to use, falling back to DefaultCRF.
func (p KeyParams) EffectiveCRF() int {
	if p.CRF == 0 {
		return DefaultCRF
	}
	return p.CRF
}
