package texture

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer submits one textured rectangle.
type Renderer interface {
	// SubmitRect draws the region of src into dest on target, scaled to fit.
	// transpose swaps the source axes before scaling.
	SubmitRect(target *ebiten.Image, dest image.Rectangle, src *ebiten.Image, region image.Rectangle, tint color.Color, transpose bool)
}

// EbitenRenderer submits rectangles with ebiten's DrawImage.
type EbitenRenderer struct {
	// Filter is the sampling filter; the zero value is nearest neighbour
	Filter ebiten.Filter
}

// SubmitRect implements Renderer. Missing images and empty rectangles are skipped.
func (r *EbitenRenderer) SubmitRect(target *ebiten.Image, dest image.Rectangle, src *ebiten.Image, region image.Rectangle, tint color.Color, transpose bool) {
	if target == nil || src == nil || dest.Empty() {
		return
	}
	region = region.Intersect(src.Bounds())
	if region.Empty() {
		return
	}
	sub, ok := src.SubImage(region).(*ebiten.Image)
	if !ok {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = r.Filter
	op.GeoM = fitGeoM(dest, region, transpose)
	if tint != nil {
		op.ColorScale.ScaleWithColor(tint)
	}

	target.DrawImage(sub, op)
}

// fitGeoM maps a source region of the given size onto dest.
// transpose swaps the source axes before scaling.
func fitGeoM(dest, region image.Rectangle, transpose bool) ebiten.GeoM {
	var m ebiten.GeoM
	srcW, srcH := float64(region.Dx()), float64(region.Dy())
	if transpose {
		// (x, y) -> (y, x)
		m.SetElement(0, 0, 0)
		m.SetElement(0, 1, 1)
		m.SetElement(1, 0, 1)
		m.SetElement(1, 1, 0)
		srcW, srcH = srcH, srcW
	}
	m.Scale(float64(dest.Dx())/srcW, float64(dest.Dy())/srcH)
	m.Translate(float64(dest.Min.X), float64(dest.Min.Y))
	return m
}

// Submit draws any drawable. Animated textures are flattened first; drawables
// without pixel storage are skipped. Use AnimatedTexture.Draw when the caller is
// an owner that should be tracked.
func Submit(r Renderer, target *ebiten.Image, dest image.Rectangle, d Drawable, tint color.Color, transpose bool) {
	if r == nil {
		return
	}
	flat := Resolve(d, 0)
	src, region := sourceOf(flat)
	if src == nil {
		return
	}
	r.SubmitRect(target, dest, src, region, tint, transpose)
}
