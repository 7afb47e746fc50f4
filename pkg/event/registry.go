package event

import (
    "fmt"
    "sync"
)

// Handler receives the event payload. Payload is empty for Connect and Read.
// Handlers run on the emitting goroutine and must not block indefinitely.
type Handler func(payload []byte)

// ListenerID identifies a listener within its event. Ids start at 1 and grow
// monotonically; they are only meaningful together with the event they were
// issued for.
type ListenerID uint64

type listenerEntry struct {
    id ListenerID
    h  Handler
}

type listenerSet struct {
    nextID  ListenerID
    entries []listenerEntry // registration order
}

// Registry maps events to ordered listener sequences. It is safe for
// concurrent use; handlers are invoked outside the registry lock, so a
// handler may register or remove listeners.
type Registry struct {
    mu   sync.Mutex
    sets map[Event]*listenerSet
}

func NewRegistry() *Registry { return &Registry{sets: make(map[Event]*listenerSet)} }

// On appends h to the listeners of ev and returns its id.
func (r *Registry) On(ev Event, h Handler) (ListenerID, error) {
    if !ev.Valid() {
        return 0, fmt.Errorf("%w: %s", ErrInvalidEvent, ev)
    }
    if h == nil {
        return 0, ErrNilHandler
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    set := r.sets[ev]
    if set == nil {
        set = &listenerSet{nextID: 1}
        r.sets[ev] = set
    }
    id := set.nextID
    set.nextID++
    set.entries = append(set.entries, listenerEntry{id: id, h: h})
    return id, nil
}

// RemoveListener removes exactly the listener registered under (ev, id).
// Other listeners keep their ids and relative order.
func (r *Registry) RemoveListener(ev Event, id ListenerID) error {
    if !ev.Valid() {
        return fmt.Errorf("%w: %s", ErrInvalidEvent, ev)
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    set := r.sets[ev]
    if set != nil {
        for i, e := range set.entries {
            if e.id != id { continue }
            // copy-on-remove so snapshots handed to Emit stay intact
            next := make([]listenerEntry, 0, len(set.entries)-1)
            next = append(next, set.entries[:i]...)
            next = append(next, set.entries[i+1:]...)
            set.entries = next
            return nil
        }
    }
    return fmt.Errorf("%w: %s/%d", ErrInvalidListenerID, ev, id)
}

// RemoveAllListeners clears every listener of ev together with its id
// history; ids issued afterwards start again at 1.
func (r *Registry) RemoveAllListeners(ev Event) error {
    if !ev.Valid() {
        return fmt.Errorf("%w: %s", ErrInvalidEvent, ev)
    }
    r.mu.Lock()
    delete(r.sets, ev)
    r.mu.Unlock()
    return nil
}

// Count returns the number of listeners currently registered for ev.
func (r *Registry) Count(ev Event) int {
    r.mu.Lock()
    defer r.mu.Unlock()
    if set := r.sets[ev]; set != nil { return len(set.entries) }
    return 0
}

// Emit calls every listener of ev in registration order on the calling
// goroutine. Listeners added or removed during emission take effect on the
// next Emit. Emitting an event without listeners is a no-op.
func (r *Registry) Emit(ev Event, payload []byte) {
    r.mu.Lock()
    var snapshot []listenerEntry
    if set := r.sets[ev]; set != nil { snapshot = set.entries }
    r.mu.Unlock()
    for _, e := range snapshot {
        e.h(payload)
    }
}
