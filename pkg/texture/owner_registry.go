package texture

// ownerEntry is one owner currently displaying the texture.
type ownerEntry struct {
	key    any
	handle OwnerHandle

	// property is the owner property found to reference the texture.
	// Advisory only; empty when discovery found nothing.
	property string

	// fresh entries were registered since the last prune and skip one
	// property re-validation, since owners often assign the property after
	// their first draw.
	fresh bool
}

// OwnerRegistry tracks the owners displaying one texture through weak handles.
// It never keeps an owner alive; dead owners are pruned lazily.
type OwnerRegistry struct {
	target  Drawable
	names   []string
	entries []*ownerEntry
	index   map[any]*ownerEntry
}

// NewOwnerRegistry creates a registry for target. names is the fast-path list of
// property names checked before a full scan; nil uses DefaultOwnerPropertyNames.
func NewOwnerRegistry(target Drawable, names []string) *OwnerRegistry {
	if names == nil {
		names = DefaultOwnerPropertyNames
	}
	return &OwnerRegistry{
		target: target,
		names:  names,
		index:  make(map[any]*ownerEntry),
	}
}

// Register records an owner. Registering the same owner again is a no-op.
// Returns true when the owner was not known before.
func (r *OwnerRegistry) Register(h OwnerHandle) bool {
	if h == nil {
		return false
	}
	key := h.Key()
	if _, exists := r.index[key]; exists {
		return false
	}
	entry := &ownerEntry{
		key:      key,
		handle:   h,
		property: r.discover(h, ""),
		fresh:    true,
	}
	r.entries = append(r.entries, entry)
	r.index[key] = entry
	return true
}

// NotifyOwners requests a redraw from every live owner and drops dead ones
// after the pass. Returns the number of owners notified.
func (r *OwnerRegistry) NotifyOwners() int {
	notified := 0
	var dead []*ownerEntry
	for _, entry := range r.entries {
		if !entry.handle.Alive() {
			dead = append(dead, entry)
			continue
		}
		entry.handle.RequestRedraw()
		notified++
	}
	r.remove(dead)
	return notified
}

// PruneDead drops dead owners and owners whose property no longer references
// the texture. Owners for which no property was ever found are kept.
// Returns the number of entries removed.
func (r *OwnerRegistry) PruneDead() int {
	var stale []*ownerEntry
	for _, entry := range r.entries {
		if !entry.handle.Alive() {
			stale = append(stale, entry)
			continue
		}
		if entry.fresh {
			entry.fresh = false
			continue
		}
		if !r.stillReferences(entry) {
			stale = append(stale, entry)
		}
	}
	r.remove(stale)
	return len(stale)
}

// stillReferences re-checks the discovered property, rescanning on a miss.
func (r *OwnerRegistry) stillReferences(entry *ownerEntry) bool {
	if entry.property == "" {
		// Nothing better to go on: inspection may simply be unavailable
		return true
	}
	insp := entry.handle.Properties()
	if insp == nil {
		return true
	}
	if r.refersToTarget(insp.GetProperty(entry.property)) {
		return true
	}
	if found := r.discover(entry.handle, entry.property); found != "" {
		entry.property = found
		return true
	}
	return false
}

// discover finds the property of the owner that holds the texture.
// The fast-path names are tried first, then every listed property.
// skip is a name already known not to match.
func (r *OwnerRegistry) discover(h OwnerHandle, skip string) string {
	insp := h.Properties()
	if insp == nil {
		return ""
	}
	checked := make(map[string]bool, len(r.names))
	for _, name := range r.names {
		checked[name] = true
		if name == skip {
			continue
		}
		if r.refersToTarget(insp.GetProperty(name)) {
			return name
		}
	}
	for _, name := range insp.ListProperties() {
		if checked[name] || name == skip {
			continue
		}
		if r.refersToTarget(insp.GetProperty(name)) {
			return name
		}
	}
	return ""
}

// refersToTarget is an identity check against object-typed values only.
func (r *OwnerRegistry) refersToTarget(v any) bool {
	d, ok := v.(Drawable)
	if !ok || d == nil {
		return false
	}
	return d == r.target
}

func (r *OwnerRegistry) remove(entries []*ownerEntry) {
	if len(entries) == 0 {
		return
	}
	drop := make(map[*ownerEntry]bool, len(entries))
	for _, e := range entries {
		drop[e] = true
		delete(r.index, e.key)
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !drop[e] {
			kept = append(kept, e)
		}
	}
	// Clear the tail so removed handles can be collected
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = nil
	}
	r.entries = kept
}

// Len returns the number of tracked owners, live or not yet pruned.
func (r *OwnerRegistry) Len() int {
	return len(r.entries)
}

// Contains reports whether an owner with the handle's key is tracked.
func (r *OwnerRegistry) Contains(h OwnerHandle) bool {
	if h == nil {
		return false
	}
	_, ok := r.index[h.Key()]
	return ok
}

// PropertyOf returns the discovered property name for an owner.
func (r *OwnerRegistry) PropertyOf(h OwnerHandle) string {
	if h == nil {
		return ""
	}
	if entry, ok := r.index[h.Key()]; ok {
		return entry.property
	}
	return ""
}

// Clear forgets every owner.
func (r *OwnerRegistry) Clear() {
	for i := range r.entries {
		r.entries[i] = nil
	}
	r.entries = r.entries[:0]
	r.index = make(map[any]*ownerEntry)
}
