package texture

import "github.com/decker502/animtex/pkg/frameloop"

// TickSource is the per-frame signal an AnimatedTexture subscribes to while active.
// *frameloop.Loop implements it.
type TickSource interface {
	Subscribe(fn func(dt float64)) frameloop.Handle
	Unsubscribe(h frameloop.Handle)
}

// InspectionQuery reports whether a texture is the object currently being
// inspected by a host tool. Inspected textures never hibernate.
type InspectionQuery interface {
	IsInspected(t *AnimatedTexture) bool
}

// DefaultCheckInterval is the hibernation check period in seconds of tick time.
const DefaultCheckInterval = 1.0

// Options configures an AnimatedTexture.
type Options struct {
	// Name is used in log lines only
	Name string

	// Tick drives playback. nil means the texture never advances on its own.
	Tick TickSource

	// Renderer receives Draw submissions. nil uses an EbitenRenderer.
	Renderer Renderer

	// Loader is used by HealCache to reload broken frames. May be nil.
	Loader ImageLoader

	// Inspection is the optional host inspection query
	Inspection InspectionQuery

	// Autoplay starts playback when frames are assigned and on wake
	Autoplay bool

	// SpeedScale is the initial playback multiplier, clamped to MinSpeedScale
	SpeedScale float64

	// CheckInterval is the hibernation check period. <= 0 uses DefaultCheckInterval.
	CheckInterval float64

	// OwnerPropertyNames is the property fast path for owner discovery.
	// nil uses DefaultOwnerPropertyNames.
	OwnerPropertyNames []string

	// Verbose logs lifecycle transitions
	Verbose bool
}

// DefaultOptions returns options with autoplay on and the default check interval.
func DefaultOptions(tick TickSource) Options {
	return Options{
		Tick:          tick,
		Autoplay:      true,
		SpeedScale:    1,
		CheckInterval: DefaultCheckInterval,
	}
}
