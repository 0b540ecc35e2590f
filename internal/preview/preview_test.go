package preview

import (
	"math"
	"testing"

	"github.com/decker502/animtex/internal/spriteframes"
	"github.com/decker502/animtex/pkg/texture"
)

func TestBuildFrames(t *testing.T) {
	doc, err := spriteframes.Parse([]byte(`animations:
  - name: walk
    fps: 4
    frames:
      - image: hero.png
        region: [0, 0, 32, 16]
      - image: hero.png
        duration: 2
  - name: die
    fps: 2
    loop: false
    frames:
      - nested: burst.yaml
`), spriteframes.FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	sf := BuildFrames(doc)

	if sf.HasAnimation(texture.DefaultAnimation) {
		t.Error("default animation should be removed when the document has none")
	}
	if got := texture.TotalDuration(sf, "walk"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("walk total duration: got %v, want 0.75", got)
	}
	if sf.Loop("die") {
		t.Error("die should not loop")
	}

	first := sf.FrameTexture("walk", 0)
	if first.Width() != 32 || first.Height() != 16 {
		t.Errorf("Region frame size: got %dx%d, want 32x16", first.Width(), first.Height())
	}
	if got := Label(sf.FrameTexture("die", 0)); got != "nested: burst.yaml" {
		t.Errorf("Nested label: got %q", got)
	}
	if got := Label(sf.FrameTexture("walk", 1)); got != "hero.png" {
		t.Errorf("Image label: got %q", got)
	}
	if Label(nil) != "" {
		t.Error("Label of a non-placeholder should be empty")
	}
}
