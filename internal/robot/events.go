package robot

import "sync"

// Lifecycle event names emitted by every robot. Robots may declare and emit
// additional custom events.
const (
	// EventReady is emitted once per successful start, before the work
	// routine runs. The payload is the robot itself.
	EventReady = "ready"

	// EventError is emitted when a start phase fails, after the automatic
	// halt has run. The payload is the *StartupError.
	EventError = "error"
)

// eventBus is a synchronous multi-listener dispatcher keyed by event name.
// Listeners registered before or after construction all receive subsequent
// dispatches; past events are never replayed to late subscribers.
type eventBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(payload any)
}

func newEventBus() *eventBus {
	return &eventBus{handlers: make(map[string][]func(payload any))}
}

func (b *eventBus) on(event string, handler func(payload any)) {
	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], handler)
	b.mu.Unlock()
}

// emit dispatches synchronously, in registration order, on the caller's
// goroutine. The handler slice is snapshotted so handlers may register
// further listeners without deadlocking.
func (b *eventBus) emit(event string, payload any) {
	b.mu.RLock()
	handlers := make([]func(payload any), len(b.handlers[event]))
	copy(handlers, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// On registers a listener for the named event.
func (r *Robot) On(event string, handler func(payload any)) {
	r.events.on(event, handler)
}

// Emit dispatches the named event synchronously to all registered listeners.
func (r *Robot) Emit(event string, payload any) {
	r.events.emit(event, payload)
}

// AddEvent declares an event name so it appears in the robot's serialized
// form. Declaring is not required for emitting; duplicates are ignored.
func (r *Robot) AddEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.declaredEvents {
		if e == name {
			return
		}
	}
	r.declaredEvents = append(r.declaredEvents, name)
}
