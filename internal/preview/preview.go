// Package preview builds texture.SpriteFrames from a parsed sprite-frames
// document without loading any image, for tools that only need timing.
package preview

import (
	"github.com/decker502/animtex/internal/spriteframes"
	"github.com/decker502/animtex/pkg/texture"
)

// Placeholder is a terminal drawable with a size and no pixels.
type Placeholder struct {
	W, H int
	// Label describes the frame source, e.g. "hero.png [0 0 32 32]"
	Label string
}

func (p *Placeholder) Width() int  { return p.W }
func (p *Placeholder) Height() int { return p.H }

// BuildFrames converts doc into SpriteFrames whose frames are Placeholders.
// Timing is identical to frames built from real images. Nested frames become
// placeholders too, so no document is followed.
func BuildFrames(doc *spriteframes.Document) *texture.SpriteFrames {
	sf := texture.NewSpriteFrames()
	if doc.Find(texture.DefaultAnimation) == nil && len(doc.Animations) > 0 {
		sf.RemoveAnimation(texture.DefaultAnimation)
	}
	for _, anim := range doc.Animations {
		sf.AddAnimation(anim.Name)
		sf.SetSpeed(anim.Name, anim.FPS)
		sf.SetLoop(anim.Name, anim.Looping())
		for _, f := range anim.Frames {
			sf.AddFrame(anim.Name, placeholderFor(f), f.RelativeDuration())
		}
	}
	return sf
}

func placeholderFor(f spriteframes.Frame) *Placeholder {
	p := &Placeholder{W: 1, H: 1, Label: f.Image}
	if f.Nested != "" {
		p.Label = "nested: " + f.Nested
		return p
	}
	if r, ok := f.Rect(); ok {
		p.W, p.H = r.Dx(), r.Dy()
		p.Label = f.Image + " " + r.String()
	}
	return p
}

// Label returns the description of a frame built by BuildFrames, or "".
func Label(d texture.Drawable) string {
	if p, ok := d.(*Placeholder); ok {
		return p.Label
	}
	return ""
}
