package texture

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// testOwner is a controllable OwnerHandle with inspectable properties
type testOwner struct {
	alive     bool
	redraws   int
	props     map[string]any
	propOrder []string
	inspect   bool
}

func newTestOwner() *testOwner {
	return &testOwner{alive: true, inspect: true, props: make(map[string]any)}
}

func (o *testOwner) set(name string, v any) {
	if _, exists := o.props[name]; !exists {
		o.propOrder = append(o.propOrder, name)
	}
	o.props[name] = v
}

func (o *testOwner) Key() any { return o }
func (o *testOwner) Alive() bool { return o.alive }
func (o *testOwner) RequestRedraw() { o.redraws++ }
func (o *testOwner) ListProperties() []string { return o.propOrder }
func (o *testOwner) GetProperty(name string) any {
	return o.props[name]
}

func (o *testOwner) Properties() PropertyInspector {
	if !o.inspect || !o.alive {
		return nil
	}
	return o
}

// submitCall records one SubmitRect call
type submitCall struct {
	dest      image.Rectangle
	src       *ebiten.Image
	region    image.Rectangle
	tint      color.Color
	transpose bool
}

// recordingRenderer collects submissions instead of drawing
type recordingRenderer struct {
	calls []submitCall
}

func (r *recordingRenderer) SubmitRect(target *ebiten.Image, dest image.Rectangle, src *ebiten.Image, region image.Rectangle, tint color.Color, transpose bool) {
	r.calls = append(r.calls, submitCall{dest: dest, src: src, region: region, tint: tint, transpose: transpose})
}

// countingLoader hands out one image per path and counts loads
type countingLoader struct {
	loads int
	fail  bool
	size  int
}

func (l *countingLoader) LoadImage(path string) (*ebiten.Image, error) {
	if l.fail {
		return nil, errors.New("file not found: " + path)
	}
	l.loads++
	size := l.size
	if size == 0 {
		size = 64
	}
	return ebiten.NewImage(size, size), nil
}

// newStripFrames builds a resource holding only an animation of n equal frames,
// each a distinct image
func newStripFrames(name string, n int, fps float64, loop bool) (*SpriteFrames, []*ImageTexture) {
	sf := NewSpriteFrames()
	if name != DefaultAnimation {
		sf.RemoveAnimation(DefaultAnimation)
	}
	sf.AddAnimation(name)
	sf.SetSpeed(name, fps)
	sf.SetLoop(name, loop)
	textures := make([]*ImageTexture, n)
	for i := 0; i < n; i++ {
		textures[i] = NewImageTexture(ebiten.NewImage(8+i, 8+i), "")
		sf.AddFrame(name, textures[i], 1)
	}
	return sf, textures
}

// singleFrame builds a "default" animation whose only frame is d
func singleFrame(d Drawable) *SpriteFrames {
	sf := NewSpriteFrames()
	sf.AddFrame(DefaultAnimation, d, 1)
	return sf
}

// quietOptions never hibernates within a test unless a test shortens the interval
func quietOptions(tick TickSource) Options {
	opts := DefaultOptions(tick)
	opts.CheckInterval = 1000
	return opts
}
