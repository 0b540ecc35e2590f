// Package spriteframes provides data structures and parsers for sprite-frames documents.
// A sprite-frames document lists named animations, each made of timed frames that
// reference either an image (optionally an atlas region inside it) or another
// sprite-frames document to be displayed as a nested animated texture.
//
// Two encodings are supported:
//   - YAML (.yaml / .yml), the authoring format
//   - rootless XML (.xml), in the same element style as exported reanim files
package spriteframes

import "image"

// Document is the root structure of a sprite-frames file.
type Document struct {
	// Animations is the list of named animations in file order
	Animations []Animation `yaml:"animations" xml:"anim"`
}

// Animation is one named track of frames.
type Animation struct {
	// Name is the animation name, e.g., "idle", "default"
	Name string `yaml:"name" xml:"name"`

	// FPS is the playback rate in frames per second.
	// A frame with relative duration 1 is displayed for 1/FPS seconds.
	FPS float64 `yaml:"fps" xml:"fps"`

	// Loop controls wrapping. nil means loop (the default).
	Loop *bool `yaml:"loop,omitempty" xml:"loop,omitempty"`

	// Frames is the ordered frame sequence
	Frames []Frame `yaml:"frames" xml:"t"`
}

// Frame is a single timed frame. Exactly one of Image or Nested is expected.
type Frame struct {
	// Image is the image path relative to the document, e.g., "sheets/hero.png"
	Image string `yaml:"image,omitempty" xml:"i,omitempty"`

	// Region is the atlas rectangle as [x, y, w, h]. Empty means the whole image.
	Region []int `yaml:"region,omitempty" xml:"-"`

	// RegionText is the XML form of Region: "x,y,w,h"
	RegionText string `yaml:"-" xml:"r,omitempty"`

	// Duration is the relative duration of the frame. 0 means the default of 1.
	Duration float64 `yaml:"duration,omitempty" xml:"d,omitempty"`

	// Nested is the path of another sprite-frames document shown as this frame
	Nested string `yaml:"nested,omitempty" xml:"n,omitempty"`
}

// Looping reports whether the animation wraps around. Animations loop unless
// the document says otherwise.
func (a *Animation) Looping() bool {
	if a.Loop == nil {
		return true
	}
	return *a.Loop
}

// RelativeDuration returns the frame duration with the default applied.
func (f *Frame) RelativeDuration() float64 {
	if f.Duration == 0 {
		return 1
	}
	return f.Duration
}

// Rect returns the atlas region of the frame, or false if the frame covers the
// whole image.
func (f *Frame) Rect() (image.Rectangle, bool) {
	if len(f.Region) != 4 {
		return image.Rectangle{}, false
	}
	x, y, w, h := f.Region[0], f.Region[1], f.Region[2], f.Region[3]
	return image.Rect(x, y, x+w, y+h), true
}

// Find returns the animation with the given name, or nil.
func (d *Document) Find(name string) *Animation {
	for i := range d.Animations {
		if d.Animations[i].Name == name {
			return &d.Animations[i]
		}
	}
	return nil
}

// NestedRefs collects the unique nested document paths referenced by any frame,
// in first-seen order.
func (d *Document) NestedRefs() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, anim := range d.Animations {
		for _, frame := range anim.Frames {
			if frame.Nested == "" || seen[frame.Nested] {
				continue
			}
			seen[frame.Nested] = true
			refs = append(refs, frame.Nested)
		}
	}
	return refs
}
