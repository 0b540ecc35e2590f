package texture

import (
	"log"
	"weak"
)

// LifecycleState is the hibernation state of an AnimatedTexture.
type LifecycleState int

const (
	// StateActive textures are subscribed to the tick source
	StateActive LifecycleState = iota
	// StateHibernating textures do no per-frame work until drawn or inspected
	StateHibernating
)

func (s LifecycleState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateHibernating:
		return "hibernating"
	default:
		return "unknown"
	}
}

// State returns the current lifecycle state.
func (t *AnimatedTexture) State() LifecycleState {
	return t.state
}

// ensureSubscribed connects the tick callback once. The busy flag stops a
// re-entrant call from connecting twice.
func (t *AnimatedTexture) ensureSubscribed() {
	if t.busy || t.tick == nil {
		return
	}
	t.busy = true
	defer func() { t.busy = false }()

	if t.tickHandle != 0 {
		return
	}
	t.tickHandle = t.tick.Subscribe(t.onTick)
}

func (t *AnimatedTexture) unsubscribe() {
	if t.tick == nil || t.tickHandle == 0 {
		return
	}
	t.tick.Unsubscribe(t.tickHandle)
	t.tickHandle = 0
}

// wake moves a hibernating texture back to Active.
func (t *AnimatedTexture) wake() {
	if t.state == StateActive {
		t.ensureSubscribed()
		return
	}
	t.state = StateActive
	t.checkElapsed = 0
	t.ensureSubscribed()
	if t.autoplay && t.frames != nil {
		t.clock.SetPlaying(true)
	}
	if t.verbose {
		log.Printf("[AnimatedTexture] %s woke up", t.label())
	}
	t.refresh()
}

// hibernate stops all per-frame work and releases per-instance caches.
func (t *AnimatedTexture) hibernate() {
	if t.state == StateHibernating {
		return
	}
	t.state = StateHibernating
	t.unsubscribe()
	t.clock.Rewind()
	t.owners.Clear()
	t.heal.Clear()
	t.resolved = nil
	t.detachNested()
	t.checkElapsed = 0
	if t.verbose {
		log.Printf("[AnimatedTexture] %s hibernating", t.label())
	}
}

// checkHibernation prunes owners and hibernates when nothing displays or
// inspects the texture. Returns true if the texture went to sleep.
func (t *AnimatedTexture) checkHibernation() bool {
	t.owners.PruneDead()
	if t.owners.Len() > 0 || t.isInspected() {
		return false
	}
	t.hibernate()
	return true
}

func (t *AnimatedTexture) isInspected() bool {
	if t.inspected {
		return true
	}
	return t.inspection != nil && t.inspection.IsInspected(t)
}

// SetInspected marks the texture as directly inspected by a host tool.
// Inspected textures are woken and never hibernate.
func (t *AnimatedTexture) SetInspected(inspected bool) {
	t.inspected = inspected
	if inspected {
		t.wake()
	}
}

// nestedOwner is the owner entry a parent texture places in the registry of the
// nested texture it displays, so the child stays awake while in use.
type nestedOwner struct {
	parent weak.Pointer[AnimatedTexture]
	child  *AnimatedTexture
}

func (o *nestedOwner) Key() any { return o.parent }

func (o *nestedOwner) Alive() bool {
	p := o.parent.Value()
	return p != nil && p.state == StateActive && p.nested == o.child
}

// RequestRedraw is a no-op: parents follow the child's frame changes through
// their subscription instead.
func (o *nestedOwner) RequestRedraw() {}

func (o *nestedOwner) Properties() PropertyInspector { return nil }

// bindNested subscribes to the frame changes of the nested texture currently
// displayed, replacing any previous subscription. Self references are not bound.
func (t *AnimatedTexture) bindNested(raw Drawable) {
	child, _ := raw.(*AnimatedTexture)
	if child == t {
		child = nil
	}
	if child == t.nested {
		return
	}
	t.detachNested()
	if child == nil {
		return
	}
	t.nested = child
	t.nestedUnsub = child.OnFrameChanged(t.onNestedFrameChanged)
	child.registerOwner(&nestedOwner{parent: weak.Make(t), child: child})
}

func (t *AnimatedTexture) detachNested() {
	if t.nestedUnsub != nil {
		t.nestedUnsub()
		t.nestedUnsub = nil
	}
	t.nested = nil
}

func (t *AnimatedTexture) onNestedFrameChanged() {
	if t.state != StateActive {
		return
	}
	t.frameUpdated()
}
