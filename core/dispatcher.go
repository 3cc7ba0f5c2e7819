package dialog

import (
	"sync"

	"github.com/tkovacevic/dialogline/core/events"
)

// ListenerRegistration identifies one registered listener so it can be
// removed later.
type ListenerRegistration struct {
	kind events.Kind
	id   uint64
}

type listenerEntry struct {
	id uint64
	fn func(events.Event)
}

// dispatcher fans events out to the listeners registered for their kind.
type dispatcher struct {
	mu        sync.Mutex
	fireMu    sync.Mutex
	nextID    uint64
	listeners map[events.Kind][]listenerEntry
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: map[events.Kind][]listenerEntry{}}
}

func (d *dispatcher) add(kind events.Kind, fn func(events.Event)) ListenerRegistration {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.listeners[kind] = append(d.listeners[kind], listenerEntry{id: d.nextID, fn: fn})
	return ListenerRegistration{kind: kind, id: d.nextID}
}

func (d *dispatcher) remove(registration ListenerRegistration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[registration.kind]
	for i, entry := range entries {
		if entry.id == registration.id {
			d.listeners[registration.kind] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// fire delivers event to every listener registered at this moment, in
// registration order. Listeners registered afterwards never observe it.
// Delivery of distinct events is serialized, so listeners observe events
// in firing order.
func (d *dispatcher) fire(event events.Event) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	d.mu.Lock()
	registered := d.listeners[event.Kind()]
	entries := make([]listenerEntry, len(registered))
	copy(entries, registered)
	d.mu.Unlock()

	for _, entry := range entries {
		entry.fn(event)
	}
}
