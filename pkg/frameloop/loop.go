// Package frameloop provides the per-frame tick signal that drives animated textures.
//
// A Loop is stepped once per rendering frame by the host (usually from ebiten's
// Game.Update). Subscribers receive the frame delta in seconds. Subscribers are
// invoked in subscription order, and the subscriber list is copied before each
// step so callbacks may subscribe or unsubscribe freely while being called.
//
// Usage:
//
//	loop := frameloop.New()
//	h := loop.Subscribe(func(dt float64) { clock.Advance(dt) })
//	defer loop.Unsubscribe(h)
//
//	// In Game.Update
//	loop.Step(frameloop.EbitenDelta())
package frameloop

import "github.com/hajimehoshi/ebiten/v2"

// Handle identifies a subscription. The zero Handle is never issued.
type Handle uint64

// Loop is a single-threaded tick source.
// It is NOT safe for concurrent use; step and subscribe from the game goroutine only.
type Loop struct {
	nextID uint64
	order  []Handle
	subs   map[Handle]func(dt float64)

	frames  uint64
	elapsed float64
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{
		nextID: 1, // 0 is reserved as the invalid handle
		subs:   make(map[Handle]func(dt float64)),
	}
}

// Subscribe registers fn to be called on every Step and returns its handle.
func (l *Loop) Subscribe(fn func(dt float64)) Handle {
	if fn == nil {
		return 0
	}
	h := Handle(l.nextID)
	l.nextID++
	l.subs[h] = fn
	l.order = append(l.order, h)
	return h
}

// Unsubscribe removes a subscription. Unknown or zero handles are ignored.
func (l *Loop) Unsubscribe(h Handle) {
	if _, ok := l.subs[h]; !ok {
		return
	}
	delete(l.subs, h)
	for i, id := range l.order {
		if id == h {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// IsSubscribed reports whether h is still registered.
func (l *Loop) IsSubscribed(h Handle) bool {
	_, ok := l.subs[h]
	return ok
}

// SubscriberCount returns the number of live subscriptions.
func (l *Loop) SubscriberCount() int {
	return len(l.subs)
}

// Step advances every subscriber by dt seconds.
// Negative deltas are treated as zero.
func (l *Loop) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	l.frames++
	l.elapsed += dt

	if len(l.order) == 0 {
		return
	}

	// Copy so callbacks can mutate the subscription list
	order := make([]Handle, len(l.order))
	copy(order, l.order)

	for _, h := range order {
		// A callback earlier in this step may have removed h
		fn, ok := l.subs[h]
		if !ok {
			continue
		}
		fn(dt)
	}
}

// Frames returns how many times Step has been called.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Elapsed returns the total tick time in seconds.
func (l *Loop) Elapsed() float64 {
	return l.elapsed
}

// EbitenDelta returns the fixed update delta of the running ebiten game in seconds.
// ebiten calls Update exactly TPS times per second, so 1/TPS is the frame delta.
func EbitenDelta() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		return 1.0 / float64(ebiten.DefaultTPS)
	}
	return 1.0 / float64(tps)
}
