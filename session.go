package trellis

// TaskQueue serializes event handler execution. Dispatch posts handlers
// here and returns immediately; the host's event loop drains the queue
// between input events, so handlers run in submission order, strictly after
// the dispatch call that scheduled them. Everything is single-threaded.
type TaskQueue struct {
	tasks []func()
}

// Post appends a task to the queue.
func (q *TaskQueue) Post(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Drain runs queued tasks in order until the queue is empty, including
// tasks posted by tasks already running.
func (q *TaskQueue) Drain() {
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		fn()
	}
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int { return len(q.tasks) }

// Session scopes trellis state to one host: the surface-to-renderer
// registry and the task queue. Create one per UI, tear it down explicitly
// with Close.
type Session struct {
	host      Host
	queue     TaskQueue
	renderers map[Surface]*Renderer
}

// NewSession creates a session over the given host.
func NewSession(host Host) *Session {
	return &Session{
		host:      host,
		renderers: map[Surface]*Renderer{},
	}
}

// Host returns the session's host.
func (s *Session) Host() Host { return s.host }

// Queue returns the session's task queue. The host loop should call
// Queue().Drain() (or Flush) after delivering input.
func (s *Session) Queue() *TaskQueue { return &s.queue }

// Flush runs all pending event handlers.
func (s *Session) Flush() { s.queue.Drain() }

// AttachOptions configures Attach.
type AttachOptions struct {
	// Keys maps host key names to event names dispatched at the cursor
	// path when the key is pressed in the surface.
	Keys map[string]string
}

// Attach binds an element tree to a surface and returns its renderer. The
// surface is marked scratch and cursor/focus notifications are routed into
// the renderer. If the surface already has a renderer, the old one is
// closed and its open tooltip is reparented onto the replacement instead of
// being discarded.
func (s *Session) Attach(tree *Element, surface Surface, opts AttachOptions) *Renderer {
	old := s.renderers[surface]

	r := &Renderer{
		session: s,
		host:    s.host,
		surface: surface,
		tree:    tree,
	}

	if old != nil {
		r.adoptTooltip(old)
		old.close(true, true)
	}

	s.renderers[surface] = r
	s.host.MarkScratch(surface)
	s.host.OnCursorMoved(surface, r.UpdateCursor)
	s.host.OnFocus(surface, r.UpdateCursor)
	for key, event := range opts.Keys {
		event := event
		s.host.BindKey(surface, key, func() { r.Event(event) })
	}
	return r
}

// Renderer returns the renderer bound to the surface, pruning it first if
// the host reports the surface destroyed.
func (s *Session) Renderer(surface Surface) *Renderer {
	r, ok := s.renderers[surface]
	if !ok {
		return nil
	}
	if !s.host.SurfaceValid(surface) {
		r.Close()
		delete(s.renderers, surface)
		return nil
	}
	return r
}

// Prune reclaims registry entries whose surfaces the host reports as no
// longer valid. A maintenance sweep; no single operation depends on it.
func (s *Session) Prune() {
	for surface, r := range s.renderers {
		if !s.host.SurfaceValid(surface) {
			r.Close()
			delete(s.renderers, surface)
		}
	}
}

// Close closes every renderer in the session and empties the registry.
func (s *Session) Close() {
	for surface, r := range s.renderers {
		r.Close()
		delete(s.renderers, surface)
	}
	s.queue.tasks = nil
}
