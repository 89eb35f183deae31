package model

import "time"

// AssetKind distinguishes uploaded media types.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
)

// VideoMetadata holds the probed properties of a video asset.
type VideoMetadata struct {
	Duration time.Duration `json:"duration"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	FPS      float64       `json:"fps"`
	HasAudio bool          `json:"has_audio"`
}

// ImageMetadata holds the probed properties of an image asset.
type ImageMetadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Asset is an uploaded media item. Assets are immutable once registered;
// the store owns their lifetime, the engine only reads them.
type Asset struct {
	ID       string    `json:"asset_id"`
	Kind     AssetKind `json:"asset_type"`
	Filename string    `json:"filename"`
	Path     string    `json:"-"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Video-only fields, zero for images.
	Duration time.Duration `json:"duration,omitempty"`
	FPS      float64       `json:"fps,omitempty"`
	HasAudio bool          `json:"has_audio,omitempty"`
}

// IsVideo reports whether the asset is a video.
func (a *Asset) IsVideo() bool {
	return a.Kind == AssetVideo
}
