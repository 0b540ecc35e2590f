package texture

// SizeCache remembers the last known size of the resolved drawable so size
// queries stay valid while the drawable is transiently unavailable.
type SizeCache struct {
	width, height int
	known         bool
}

// Update stores the size of d when it is available. nil leaves the cache alone.
func (c *SizeCache) Update(d Drawable) {
	if d == nil {
		return
	}
	w, h := d.Width(), d.Height()
	if w == 0 && h == 0 {
		return
	}
	c.width, c.height = w, h
	c.known = true
}

// Size returns the last known size.
func (c *SizeCache) Size() (int, int) {
	return c.width, c.height
}

// Known reports whether any size has been recorded.
func (c *SizeCache) Known() bool {
	return c.known
}
