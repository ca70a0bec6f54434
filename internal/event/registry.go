package event

import (
	"log/slog"
	"sync"
)

// Listener receives the decoded payload of an emitted event.
type Listener func(data any)

// ListenerID identifies a single registration for later removal. A listener
// registered on multiple events gets an independent ID per event.
type ListenerID int64

// Registry is an in-process mapping from event name to registered listeners.
// All methods are safe for concurrent use.
type Registry struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID ListenerID
	sets   map[string]map[ListenerID]Listener
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		logger: logger,
		sets:   make(map[string]map[ListenerID]Listener),
	}
}

// On registers fn for event and returns the ID needed to remove it.
func (r *Registry) On(event string, fn Listener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[event]
	if !ok {
		set = make(map[ListenerID]Listener)
		r.sets[event] = set
	}

	r.nextID++
	set[r.nextID] = fn
	return r.nextID
}

// Off removes the registration identified by id. Removing an unknown ID is a
// no-op. The event key is dropped once its set empties, so stale events do not
// accumulate.
func (r *Registry) Off(event string, id ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[event]
	if !ok {
		return
	}

	delete(set, id)
	if len(set) == 0 {
		delete(r.sets, event)
	}
}

// Emit invokes every listener registered for event with data. The listener set
// is snapshotted before dispatch, so On/Off calls made by a listener affect
// only subsequent emissions. A panicking listener is recovered and logged and
// does not prevent the remaining listeners from running.
func (r *Registry) Emit(event string, data any) {
	r.mu.Lock()
	set := r.sets[event]
	snapshot := make([]Listener, 0, len(set))
	for _, fn := range set {
		snapshot = append(snapshot, fn)
	}
	r.mu.Unlock()

	for _, fn := range snapshot {
		r.dispatch(event, fn, data)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (r *Registry) ListenerCount(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets[event])
}

func (r *Registry) dispatch(event string, fn Listener, data any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event listener panicked",
				"event", event,
				"panic", rec,
			)
		}
	}()

	fn(data)
}
