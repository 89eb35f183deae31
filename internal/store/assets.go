// Package store implements the filesystem-backed asset and output stores
// the render engine collaborates with.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/autochroma/autochroma/internal/ffmpeg"
	"github.com/autochroma/autochroma/internal/model"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".m4v": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".webp": true, ".gif": true,
}

// KindForExtension classifies a file extension, returning false for
// unsupported formats.
func KindForExtension(ext string) (model.AssetKind, bool) {
	ext = strings.ToLower(ext)
	if videoExtensions[ext] {
		return model.AssetVideo, true
	}
	if imageExtensions[ext] {
		return model.AssetImage, true
	}
	return "", false
}

// ValidateID rejects identifiers that are not canonical UUIDs. IDs are used
// in filesystem paths, so this also blocks path traversal.
func ValidateID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != strings.ToLower(id) {
		return fmt.Errorf("invalid id format: %q", id)
	}
	return nil
}

// AssetStore keeps registered media assets in memory, keyed by id. Assets
// are immutable once registered.
type AssetStore struct {
	prober *ffmpeg.Prober

	mu     sync.RWMutex
	assets map[string]*model.Asset
}

// NewAssetStore creates an AssetStore. If prober is nil, a default ffprobe
// prober is used.
func NewAssetStore(prober *ffmpeg.Prober) *AssetStore {
	if prober == nil {
		prober = ffmpeg.NewProber("")
	}
	return &AssetStore{
		prober: prober,
		assets: make(map[string]*model.Asset),
	}
}

// Register probes the media file at path and adds it to the store under a
// fresh id. The file is referenced in place, not copied.
func (s *AssetStore) Register(ctx context.Context, path string) (*model.Asset, error) {
	kind, ok := KindForExtension(filepath.Ext(path))
	if !ok {
		return nil, fmt.Errorf("unsupported media format %q", filepath.Ext(path))
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	asset := &model.Asset{
		ID:       uuid.NewString(),
		Kind:     kind,
		Filename: filepath.Base(path),
		Path:     path,
	}

	if kind == model.AssetVideo {
		meta, err := s.prober.ProbeVideo(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to probe video: %w", err)
		}
		asset.Width = meta.Width
		asset.Height = meta.Height
		asset.Duration = meta.Duration
		asset.FPS = meta.FPS
		asset.HasAudio = meta.HasAudio
	} else {
		meta, err := s.prober.ProbeImage(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to probe image: %w", err)
		}
		asset.Width = meta.Width
		asset.Height = meta.Height
	}

	s.mu.Lock()
	s.assets[asset.ID] = asset
	s.mu.Unlock()

	return asset, nil
}

// RegisterDir registers every supported media file directly under dir.
// Unsupported or unreadable files are skipped.
func (s *AssetStore) RegisterDir(ctx context.Context, dir string) ([]*model.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	var registered []*model.Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := KindForExtension(filepath.Ext(entry.Name())); !ok {
			continue
		}
		asset, err := s.Register(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		registered = append(registered, asset)
	}
	return registered, nil
}

// Put adds an already probed asset to the store, assigning a fresh id if
// the asset has none.
func (s *AssetStore) Put(asset *model.Asset) *model.Asset {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.assets[asset.ID] = asset
	s.mu.Unlock()
	return asset
}

// Resolve looks up an asset by id.
func (s *AssetStore) Resolve(id string) (*model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAssetNotFound, id)
	}
	return asset, nil
}

// List returns all registered assets.
func (s *AssetStore) List() []*model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	return out
}
