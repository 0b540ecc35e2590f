package texture

import "weak"

// OwnerHandle is a non-owning reference to something displaying a texture.
// Holding a handle must never keep the owner alive.
type OwnerHandle interface {
	// Key identifies the owner. Handles with equal keys are the same owner.
	// It must be comparable.
	Key() any

	// Alive reports whether the owner still exists.
	Alive() bool

	// RequestRedraw asks the owner to draw again. Only called on live owners.
	RequestRedraw()

	// Properties exposes the owner's properties for discovery, or nil if the
	// owner cannot be inspected or is gone.
	Properties() PropertyInspector
}

// PropertyInspector lets the registry find which property of an owner holds a texture.
type PropertyInspector interface {
	ListProperties() []string
	GetProperty(name string) any
}

// DefaultOwnerPropertyNames is the fast-path list checked before a full property scan.
var DefaultOwnerPropertyNames = []string{
	"Texture",
	"Icon",
	"Normal",
	"Hover",
	"Pressed",
	"Disabled",
	"Background",
}

// WeakOwner adapts any pointer to OwnerHandle using a weak pointer, so the
// registry never extends the owner's lifetime.
type WeakOwner[T any] struct {
	ptr    weak.Pointer[T]
	redraw func(*T)
}

// NewWeakOwner creates a handle for p. redraw may be nil.
// If *T implements PropertyInspector it is used for property discovery.
func NewWeakOwner[T any](p *T, redraw func(*T)) *WeakOwner[T] {
	return &WeakOwner[T]{ptr: weak.Make(p), redraw: redraw}
}

// Key returns the weak pointer, which compares equal for the same object.
func (w *WeakOwner[T]) Key() any { return w.ptr }

func (w *WeakOwner[T]) Alive() bool { return w.ptr.Value() != nil }

func (w *WeakOwner[T]) RequestRedraw() {
	if w.redraw == nil {
		return
	}
	if p := w.ptr.Value(); p != nil {
		w.redraw(p)
	}
}

func (w *WeakOwner[T]) Properties() PropertyInspector {
	p := w.ptr.Value()
	if p == nil {
		return nil
	}
	if inspector, ok := any(p).(PropertyInspector); ok {
		return inspector
	}
	return nil
}
