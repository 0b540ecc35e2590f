package texture

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// BackupSource supplies heal information captured when frames were loaded.
type BackupSource interface {
	Backup(animation string, index int) (Backup, bool)
}

// ImageLoader loads images by path. *game.ResourceManager implements it.
type ImageLoader interface {
	LoadImage(path string) (*ebiten.Image, error)
}

// HealCache rebuilds a frame's drawable from its backup path when the live
// reference is broken. Recovered drawables are cached by path; frames sharing
// an atlas only update the region on the cached drawable.
type HealCache struct {
	backups BackupSource
	loader  ImageLoader
	byPath  map[string]Drawable
}

// NewHealCache creates a cache. Either argument may be nil, in which case
// healing always fails.
func NewHealCache(backups BackupSource, loader ImageLoader) *HealCache {
	return &HealCache{
		backups: backups,
		loader:  loader,
		byPath:  make(map[string]Drawable),
	}
}

// TryHeal returns a recovered drawable for a frame, or nil.
// Failures are logged and never propagate.
func (h *HealCache) TryHeal(animation string, index int) Drawable {
	if h == nil || h.backups == nil {
		return nil
	}
	backup, ok := h.backups.Backup(animation, index)
	if !ok || backup.Path == "" {
		return nil
	}

	if cached, ok := h.byPath[backup.Path]; ok {
		// Same source image, different frame: refresh the region only
		if atlas, isAtlas := cached.(*AtlasTexture); isAtlas && backup.HasRegion {
			atlas.Region = backup.Region
		}
		return cached
	}

	if h.loader == nil {
		return nil
	}
	img, err := h.loader.LoadImage(backup.Path)
	if err != nil || img == nil {
		log.Printf("[HealCache] Warning: failed to heal %s frame %d from %s: %v", animation, index, backup.Path, err)
		return nil
	}

	var healed Drawable
	if backup.Kind == BackupAtlas || backup.HasRegion {
		region := img.Bounds()
		if backup.HasRegion {
			region = backup.Region
		}
		healed = NewAtlasTexture(img, region, backup.Path)
	} else {
		healed = NewImageTexture(img, backup.Path)
	}
	h.byPath[backup.Path] = healed
	return healed
}

// Len returns the number of cached paths.
func (h *HealCache) Len() int {
	return len(h.byPath)
}

// Clear drops every cached drawable.
func (h *HealCache) Clear() {
	h.byPath = make(map[string]Drawable)
}

// SetBackups replaces the backup source and clears the cache.
func (h *HealCache) SetBackups(backups BackupSource) {
	h.backups = backups
	h.Clear()
}
