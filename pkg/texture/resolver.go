package texture

import "log"

// MaxNestingDepth is the number of nested AnimatedTexture hops resolution follows
// before giving up. It is the only guard against nesting cycles.
const MaxNestingDepth = 8

// Resolve flattens d into a drawable a renderer can submit.
//
// Terminal drawables are returned unchanged. An *AnimatedTexture is woken (it is
// being consumed) and resolution continues into its current frame with depth+1.
// At depth MaxNestingDepth the chain is cut and nil is returned, which also
// bounds self-referencing and cyclic configurations.
func Resolve(d Drawable, depth int) Drawable {
	switch v := d.(type) {
	case nil:
		return nil
	case *AnimatedTexture:
		if v == nil {
			return nil
		}
		if depth >= MaxNestingDepth {
			if !v.depthWarned {
				v.depthWarned = true
				log.Printf("[AnimatedTexture] Warning: %s exceeds nesting depth %d, chain truncated", v.label(), MaxNestingDepth)
			}
			return nil
		}
		v.wake()
		return Resolve(v.frameTexture(), depth+1)
	default:
		return d
	}
}

// Depth returns how many nested AnimatedTexture hops d goes through before
// reaching a terminal drawable, and false if the chain is cut or ends in nil.
// It does not wake anything.
func Depth(d Drawable) (int, bool) {
	depth := 0
	for {
		switch v := d.(type) {
		case nil:
			return depth, false
		case *AnimatedTexture:
			if v == nil || depth >= MaxNestingDepth {
				return depth, false
			}
			d = v.frameTexture()
			depth++
		default:
			return depth, true
		}
	}
}
