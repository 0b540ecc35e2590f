package texture

// signal is a listener list with unsubscribe funcs.
// Emission is guarded against re-entry so a cycle of nested textures forwarding
// frame changes to each other stops after one lap.
type signal struct {
	nextID    int
	order     []int
	listeners map[int]func()
	emitting  bool
}

// connect adds fn and returns a func that removes it.
func (s *signal) connect(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	if s.listeners == nil {
		s.listeners = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() { s.disconnect(id) }
}

func (s *signal) disconnect(id int) {
	if _, ok := s.listeners[id]; !ok {
		return
	}
	delete(s.listeners, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *signal) count() int {
	return len(s.listeners)
}

// emit calls every listener in connection order. Re-entrant emits are dropped.
func (s *signal) emit() {
	if s.emitting || len(s.order) == 0 {
		return
	}
	s.emitting = true
	defer func() { s.emitting = false }()

	order := make([]int, len(s.order))
	copy(order, s.order)
	for _, id := range order {
		if fn, ok := s.listeners[id]; ok {
			fn()
		}
	}
}
