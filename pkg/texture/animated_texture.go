package texture

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/decker502/animtex/pkg/frameloop"
	"github.com/hajimehoshi/ebiten/v2"
)

// AnimatedTexture is a Drawable that plays an animation from a FrameSource.
//
// Each tick the texture advances its FrameClock; when the frame index changes it
// resolves the new frame to a flat drawable, emits FrameChanged and asks every
// owner to redraw. Textures nobody draws hibernate after one check interval and
// wake again on the next Draw.
//
// Usage:
//
//	loop := frameloop.New()
//	tex := texture.NewAnimatedTexture(texture.DefaultOptions(loop))
//	tex.SetFrames(frames)
//	tex.Play("walk", 0)
//
//	// In Game.Update
//	loop.Step(frameloop.EbitenDelta())
//
//	// In Game.Draw
//	tex.Draw(owner, screen, image.Rect(0, 0, 64, 64), nil, false)
type AnimatedTexture struct {
	name      string
	frames    FrameSource
	animation string
	clock     *FrameClock
	autoplay  bool

	renderer   Renderer
	inspection InspectionQuery
	verbose    bool

	// resolved is the flat drawable of the current frame, nil when unavailable
	resolved Drawable
	size     SizeCache
	owners   *OwnerRegistry
	heal     *HealCache

	state         LifecycleState
	inspected     bool
	checkInterval float64
	checkElapsed  float64

	tick       TickSource
	tickHandle frameloop.Handle
	busy       bool

	nested      *AnimatedTexture
	nestedUnsub func()

	frameChanged signal
	finished     signal

	depthWarned bool
}

// NewAnimatedTexture creates an empty, active texture playing "default".
func NewAnimatedTexture(opts Options) *AnimatedTexture {
	t := &AnimatedTexture{
		name:          opts.Name,
		animation:     DefaultAnimation,
		clock:         NewFrameClock(),
		autoplay:      opts.Autoplay,
		renderer:      opts.Renderer,
		inspection:    opts.Inspection,
		verbose:       opts.Verbose,
		state:         StateActive,
		checkInterval: opts.CheckInterval,
		tick:          opts.Tick,
	}
	if t.renderer == nil {
		t.renderer = &EbitenRenderer{}
	}
	if t.checkInterval <= 0 {
		t.checkInterval = DefaultCheckInterval
	}
	speed := opts.SpeedScale
	if speed == 0 {
		speed = 1
	}
	t.clock.SetSpeedScale(speed)
	t.owners = NewOwnerRegistry(t, opts.OwnerPropertyNames)
	t.heal = NewHealCache(nil, opts.Loader)
	t.ensureSubscribed()
	return t
}

func (t *AnimatedTexture) label() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("AnimatedTexture(%p)", t)
}

// SetFrames assigns the animation data. If the current animation does not exist
// in src, the first animation by name is selected. Playback starts when
// autoplay is on.
func (t *AnimatedTexture) SetFrames(src FrameSource) {
	t.frames = src
	if backups, ok := src.(BackupSource); ok {
		t.heal.SetBackups(backups)
	} else {
		t.heal.SetBackups(nil)
	}

	if src != nil && !src.HasAnimation(t.animation) {
		if names := src.AnimationNames(); len(names) > 0 {
			t.animation = names[0]
		}
	}
	t.clock.Restart()
	t.clock.SetPlaying(src != nil && t.autoplay)
	t.refresh()
	t.owners.NotifyOwners()
}

// Frames returns the assigned animation data.
func (t *AnimatedTexture) Frames() FrameSource {
	return t.frames
}

// SetAutoplay controls whether playback starts on SetFrames and on wake.
func (t *AnimatedTexture) SetAutoplay(autoplay bool) {
	t.autoplay = autoplay
}

// Autoplay reports the autoplay setting.
func (t *AnimatedTexture) Autoplay() bool {
	return t.autoplay
}

// SetSpeedScale sets the playback multiplier, clamped to MinSpeedScale.
func (t *AnimatedTexture) SetSpeedScale(scale float64) {
	t.clock.SetSpeedScale(scale)
}

// SpeedScale returns the playback multiplier.
func (t *AnimatedTexture) SpeedScale() float64 {
	return t.clock.SpeedScale()
}

// Play starts playing animation from frame fromFrame.
// An empty name keeps the current animation. Unknown names are ignored.
// A negative fromFrame resumes from the current position. Switching to another
// animation at frame 0 leaves the frame unresolved (-1) until the next tick.
// Playing a finished non-looping animation again restarts it.
func (t *AnimatedTexture) Play(animation string, fromFrame int) {
	if animation == "" {
		animation = t.animation
	}
	if t.frames == nil || !t.frames.HasAnimation(animation) {
		log.Printf("[AnimatedTexture] Warning: %s has no animation %q", t.label(), animation)
		return
	}

	t.wake()

	switched := animation != t.animation
	if switched {
		t.animation = animation
		t.clock.Restart()
	} else if !t.frames.Loop(animation) {
		total := TotalDuration(t.frames, animation)
		if total > 0 && t.clock.Progress() >= total {
			t.clock.Restart()
		}
	}

	prev := t.clock.Frame()
	if fromFrame > 0 || (fromFrame == 0 && !switched) {
		t.clock.Seek(t.frames, animation, fromFrame)
	}
	t.clock.SetPlaying(true)

	if t.clock.Frame() >= 0 && t.clock.Frame() != prev {
		t.frameUpdated()
	} else {
		t.refresh()
	}
}

// Stop pauses playback at the current frame.
func (t *AnimatedTexture) Stop() {
	t.clock.SetPlaying(false)
}

// IsPlaying reports whether the clock advances on ticks.
func (t *AnimatedTexture) IsPlaying() bool {
	return t.clock.Playing()
}

// SetFrame jumps to frame n of the current animation. Invalid indices are ignored.
func (t *AnimatedTexture) SetFrame(n int) {
	prev := t.clock.Frame()
	if !t.clock.Seek(t.frames, t.animation, n) {
		return
	}
	if n != prev {
		t.frameUpdated()
	}
}

// Frame returns the current frame index, -1 until the first frame of a newly
// selected animation has been resolved.
func (t *AnimatedTexture) Frame() int {
	return t.clock.Frame()
}

// FrameCount returns the number of frames of the current animation.
func (t *AnimatedTexture) FrameCount() int {
	if t.frames == nil {
		return 0
	}
	return t.frames.FrameCount(t.animation)
}

// Animation returns the current animation name.
func (t *AnimatedTexture) Animation() string {
	return t.animation
}

// Progress returns the playback position in seconds.
func (t *AnimatedTexture) Progress() float64 {
	return t.clock.Progress()
}

// Reset rewinds the current animation to frame 0 and restores playback per autoplay.
func (t *AnimatedTexture) Reset() {
	prev := t.clock.Frame()
	t.clock.Restart()
	t.clock.Seek(t.frames, t.animation, 0)
	t.clock.SetPlaying(t.frames != nil && t.autoplay)
	if t.clock.Frame() != prev {
		t.frameUpdated()
	} else {
		t.refresh()
	}
}

// OnFrameChanged registers fn for every frame change, including changes
// propagated from nested textures. Call the returned func to unsubscribe.
func (t *AnimatedTexture) OnFrameChanged(fn func()) func() {
	return t.frameChanged.connect(fn)
}

// OnAnimationFinished registers fn for the end of a non-looping animation.
func (t *AnimatedTexture) OnAnimationFinished(fn func()) func() {
	return t.finished.connect(fn)
}

// onTick is the tick callback. Within a tick the clock advances before the new
// frame is resolved, and resolution happens before owners are notified.
func (t *AnimatedTexture) onTick(dt float64) {
	if t.state != StateActive {
		return
	}

	// A texture going to sleep does no further work this tick
	t.checkElapsed += dt
	if t.checkElapsed >= t.checkInterval {
		t.checkElapsed = 0
		if t.checkHibernation() {
			return
		}
	}

	changed, finished := t.clock.Advance(t.frames, t.animation, dt)
	if changed {
		t.frameUpdated()
	}
	if finished {
		t.finished.emit()
	}
}

// frameUpdated resolves the current frame, then notifies listeners and owners.
func (t *AnimatedTexture) frameUpdated() {
	t.refresh()
	t.frameChanged.emit()
	t.owners.NotifyOwners()
}

// refresh recomputes the resolved drawable of the current frame.
// The texture itself is the first hop, so its frame resolves at depth 1.
func (t *AnimatedTexture) refresh() {
	raw := t.frameTexture()
	t.bindNested(raw)
	t.resolved = Resolve(raw, 1)
}

// frameTexture returns the drawable of the current frame, healed if broken.
// An unresolved frame (-1) reads frame 0.
func (t *AnimatedTexture) frameTexture() Drawable {
	if t.frames == nil {
		return nil
	}
	index := t.clock.Frame()
	if index < 0 {
		index = 0
	}
	if index >= t.frames.FrameCount(t.animation) {
		return nil
	}
	d := t.frames.FrameTexture(t.animation, index)
	if d == nil || isBroken(d) {
		if healed := t.heal.TryHeal(t.animation, index); healed != nil {
			return healed
		}
	}
	return d
}

// Resolved returns the flat drawable of the current frame, or nil.
func (t *AnimatedTexture) Resolved() Drawable {
	return t.resolved
}

// registerOwner records an owner and wakes the texture.
func (t *AnimatedTexture) registerOwner(owner OwnerHandle) {
	if owner != nil {
		t.owners.Register(owner)
	}
	t.wake()
}

// OwnerCount returns the number of tracked owners.
func (t *AnimatedTexture) OwnerCount() int {
	return t.owners.Len()
}

// Draw submits the current frame into dest on behalf of owner.
// The owner is registered for redraw notifications and a hibernating texture
// wakes up. owner may be nil for untracked one-off draws.
func (t *AnimatedTexture) Draw(owner OwnerHandle, target *ebiten.Image, dest image.Rectangle, tint color.Color, transpose bool) {
	t.registerOwner(owner)

	flat := t.resolved
	if flat == nil {
		return
	}
	src, region := sourceOf(flat)
	if src == nil {
		// Broken and unhealable: nothing to submit
		return
	}
	t.renderer.SubmitRect(target, dest, src, region, tint, transpose)
}

// Width returns the width of the resolved drawable, or the last known width.
func (t *AnimatedTexture) Width() int {
	t.size.Update(t.resolved)
	w, _ := t.size.Size()
	return w
}

// Height returns the height of the resolved drawable, or the last known height.
func (t *AnimatedTexture) Height() int {
	t.size.Update(t.resolved)
	_, h := t.size.Size()
	return h
}
