package texture

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestEbitenRenderer_SkipsInvalidInput(t *testing.T) {
	r := &EbitenRenderer{}
	target := ebiten.NewImage(8, 8)
	src := ebiten.NewImage(4, 4)

	// None of these may panic
	r.SubmitRect(nil, image.Rect(0, 0, 8, 8), src, src.Bounds(), nil, false)
	r.SubmitRect(target, image.Rect(0, 0, 8, 8), nil, image.Rect(0, 0, 4, 4), nil, false)
	r.SubmitRect(target, image.Rectangle{}, src, src.Bounds(), nil, false)
	r.SubmitRect(target, image.Rect(0, 0, 8, 8), src, image.Rect(10, 10, 20, 20), nil, false)
}

func TestEbitenRenderer_DrawsRegion(t *testing.T) {
	atlas := ebiten.NewImage(8, 4)
	target := ebiten.NewImage(16, 16)
	r := &EbitenRenderer{Filter: ebiten.FilterLinear}

	r.SubmitRect(target, image.Rect(8, 8, 16, 16), atlas, image.Rect(4, 0, 8, 4), color.White, false)
	r.SubmitRect(target, image.Rect(8, 8, 16, 16), atlas, image.Rect(4, 0, 8, 4), nil, true)
}

func TestFitGeoM(t *testing.T) {
	dest := image.Rect(8, 8, 16, 16)
	region := image.Rect(0, 0, 4, 2)

	tests := []struct {
		name         string
		transpose    bool
		x, y         float64
		wantX, wantY float64
	}{
		{"origin", false, 0, 0, 8, 8},
		{"far corner", false, 4, 2, 16, 16},
		{"top right", false, 4, 0, 16, 8},
		{"transposed origin", true, 0, 0, 8, 8},
		{"transposed far corner", true, 4, 2, 16, 16},
		{"transposed top right", true, 4, 0, 8, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fitGeoM(dest, region, tt.transpose)
			x, y := m.Apply(tt.x, tt.y)
			if math.Abs(x-tt.wantX) > epsilon || math.Abs(y-tt.wantY) > epsilon {
				t.Errorf("(%v, %v) mapped to (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
