package texture

import "math"

// MinSpeedScale is the lowest accepted playback speed multiplier.
const MinSpeedScale = 0.1

// FrameClock converts elapsed tick time into animation progress and a frame index.
//
// Progress is measured in seconds. A frame with relative duration d lasts d/fps
// seconds, so the total duration of an animation is T = Σ d_i / fps.
// Looping animations wrap progress into [0, T); others clamp it to [0, T].
type FrameClock struct {
	frame      int
	progress   float64
	speedScale float64
	playing    bool

	// lastSpeed is the fps progress was last measured against, 0 if unknown
	lastSpeed float64
}

// NewFrameClock returns a stopped clock with an unresolved frame.
func NewFrameClock() *FrameClock {
	return &FrameClock{frame: -1, speedScale: 1}
}

// Frame returns the current frame index, or -1 if not resolved since the last animation change.
func (c *FrameClock) Frame() int { return c.frame }

// Progress returns the playback position in seconds.
func (c *FrameClock) Progress() float64 { return c.progress }

// Playing reports whether Advance moves the clock.
func (c *FrameClock) Playing() bool { return c.playing }

// SpeedScale returns the playback multiplier.
func (c *FrameClock) SpeedScale() float64 { return c.speedScale }

// SetPlaying starts or stops the clock without touching the position.
func (c *FrameClock) SetPlaying(playing bool) { c.playing = playing }

// SetSpeedScale sets the playback multiplier, clamped to MinSpeedScale.
func (c *FrameClock) SetSpeedScale(scale float64) {
	if scale < MinSpeedScale || math.IsNaN(scale) {
		scale = MinSpeedScale
	}
	c.speedScale = scale
}

// Restart forgets the current position so the next Advance resolves a fresh frame.
// Used when the active animation changes.
func (c *FrameClock) Restart() {
	c.frame = -1
	c.progress = 0
	c.lastSpeed = 0
}

// Rewind moves to the start of frame 0 and stops.
func (c *FrameClock) Rewind() {
	c.frame = 0
	c.progress = 0
	c.playing = false
	c.lastSpeed = 0
}

// Seek places the clock at the start of frame index.
// Out-of-range indices are ignored.
func (c *FrameClock) Seek(src FrameSource, animation string, index int) bool {
	if src == nil || index < 0 || index >= src.FrameCount(animation) {
		return false
	}
	fps := src.Speed(animation)
	start := 0.0
	if fps > 0 {
		for i := 0; i < index; i++ {
			start += src.FrameDuration(animation, i) / fps
		}
	}
	c.frame = index
	c.progress = start
	c.lastSpeed = fps
	return true
}

// Advance moves the clock by delta seconds scaled by the speed multiplier.
//
// Returns:
//   - changed: the selected frame index differs from the previous one
//   - finished: a non-looping animation reached its end during this call
//
// The call is a no-op when src is nil, the animation has no frames, the rate is
// not positive, or the clock is not playing.
func (c *FrameClock) Advance(src FrameSource, animation string, delta float64) (changed, finished bool) {
	if src == nil || !c.playing {
		return false, false
	}
	if src.FrameCount(animation) == 0 {
		return false, false
	}
	fps := src.Speed(animation)
	if fps <= 0 {
		return false, false
	}

	// Keep the playback position in frame units when the rate changes mid-play
	if c.lastSpeed > 0 && c.lastSpeed != fps {
		c.progress = c.progress * c.lastSpeed / fps
	}
	c.lastSpeed = fps

	total := TotalDuration(src, animation)
	if total <= 0 {
		return false, false
	}

	c.progress += delta * c.speedScale

	if src.Loop(animation) {
		c.progress = math.Mod(c.progress, total)
		if c.progress < 0 {
			c.progress += total
		}
	} else if c.progress >= total {
		c.progress = total
		if c.playing {
			c.playing = false
			finished = true
		}
	} else if c.progress < 0 {
		c.progress = 0
	}

	index := FrameAt(src, animation, c.progress)
	changed = index != c.frame
	c.frame = index
	return changed, finished
}

// TotalDuration returns Σ duration_i / fps for an animation, or 0 when it cannot play.
func TotalDuration(src FrameSource, animation string) float64 {
	fps := src.Speed(animation)
	if fps <= 0 {
		return 0
	}
	total := 0.0
	count := src.FrameCount(animation)
	for i := 0; i < count; i++ {
		total += src.FrameDuration(animation, i) / fps
	}
	return total
}

// FrameAt selects the frame whose window contains progress.
//
// Windows are accumulated in the same order and with the same arithmetic as
// TotalDuration, so progress == T never falls between two windows. If no window
// matches because of rounding the last frame is returned. Returns -1 when the
// animation has no frames or no positive rate.
func FrameAt(src FrameSource, animation string, progress float64) int {
	count := src.FrameCount(animation)
	fps := src.Speed(animation)
	if count == 0 || fps <= 0 {
		return -1
	}
	acc := 0.0
	for i := 0; i < count; i++ {
		acc += src.FrameDuration(animation, i) / fps
		if progress < acc {
			return i
		}
	}
	return count - 1
}
