// Package texture implements drawable texture resources, including AnimatedTexture:
// a timed sprite-sheet animation that can be used anywhere a static texture is
// accepted, including as a frame of another AnimatedTexture.
//
// The package is single-threaded by contract. All playback state advances from a
// TickSource callback (normally a *frameloop.Loop stepped from ebiten's Update),
// and all drawing happens from the host's Draw.
package texture

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Drawable is anything that can be displayed as a texture.
//
// Flat drawables are *ImageTexture and *AtlasTexture. *AnimatedTexture is also a
// Drawable and is flattened by resolution before submission.
type Drawable interface {
	Width() int
	Height() int
}

// ImageTexture is a terminal drawable backed by a whole image.
type ImageTexture struct {
	// Image is the pixel storage. nil means the reference is broken.
	Image *ebiten.Image

	// Path is where the image was loaded from, used for healing. May be empty.
	Path string
}

// NewImageTexture wraps an image.
func NewImageTexture(img *ebiten.Image, path string) *ImageTexture {
	return &ImageTexture{Image: img, Path: path}
}

// Width returns the image width, or 0 if broken.
func (t *ImageTexture) Width() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Bounds().Dx()
}

// Height returns the image height, or 0 if broken.
func (t *ImageTexture) Height() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Bounds().Dy()
}

// AtlasTexture is a terminal drawable addressing a region of a shared atlas image.
// It has no pixel storage of its own: submission always uses Atlas plus Region.
type AtlasTexture struct {
	// Atlas is the shared source image. nil means the reference is broken.
	Atlas *ebiten.Image

	// Region is the rectangle inside Atlas, in atlas pixel coordinates
	Region image.Rectangle

	// Path is where the atlas was loaded from, used for healing. May be empty.
	Path string
}

// NewAtlasTexture creates a region drawable.
func NewAtlasTexture(atlas *ebiten.Image, region image.Rectangle, path string) *AtlasTexture {
	return &AtlasTexture{Atlas: atlas, Region: region, Path: path}
}

// Width returns the region width.
func (t *AtlasTexture) Width() int {
	if t == nil {
		return 0
	}
	return t.Region.Dx()
}

// Height returns the region height.
func (t *AtlasTexture) Height() int {
	if t == nil {
		return 0
	}
	return t.Region.Dy()
}

// isBroken reports whether a flat drawable has lost its pixel storage.
func isBroken(d Drawable) bool {
	switch v := d.(type) {
	case *ImageTexture:
		return v == nil || v.Image == nil
	case *AtlasTexture:
		return v == nil || v.Atlas == nil
	default:
		return false
	}
}

// sourceOf returns the image and source rectangle a flat drawable submits.
// Atlas regions submit the atlas image, never a region image of their own.
func sourceOf(d Drawable) (*ebiten.Image, image.Rectangle) {
	switch v := d.(type) {
	case *ImageTexture:
		if v == nil || v.Image == nil {
			return nil, image.Rectangle{}
		}
		return v.Image, v.Image.Bounds()
	case *AtlasTexture:
		if v == nil {
			return nil, image.Rectangle{}
		}
		return v.Atlas, v.Region
	default:
		return nil, image.Rectangle{}
	}
}
