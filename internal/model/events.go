package model

import (
	"context"
	"slices"

	"mindmark/internal/log"
)

// EventKind tells listeners what changed.
type EventKind int

const (
	// EventStructureChanged is raised when topics are added, removed or
	// moved, when the root is replaced and when links change across the document.
	EventStructureChanged EventKind = iota
	// EventTopicChanged is raised when a single topic's content changes.
	EventTopicChanged
)

// String returns the string representation of the EventKind
func (k EventKind) String() string {
	switch k {
	case EventStructureChanged:
		return "StructureChanged"
	case EventTopicChanged:
		return "TopicChanged"
	default:
		return "Unknown"
	}
}

// Event identifies the affected topic by its path at the time of the change.
// The root has an empty path.
type Event struct {
	Kind EventKind
	Path []int
}

// Listener receives document change notifications. Delivery is synchronous
// on the goroutine that made the change, after the document lock is released,
// so a listener may read or modify the document.
type Listener interface {
	OnStructureChanged(m *MindMap, e Event)
	OnTopicChanged(m *MindMap, e Event)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
// Register it by pointer so it can be removed again.
type ListenerFuncs struct {
	Structure func(m *MindMap, e Event)
	Topic     func(m *MindMap, e Event)
}

func (f *ListenerFuncs) OnStructureChanged(m *MindMap, e Event) {
	if f.Structure != nil {
		f.Structure(m, e)
	}
}

func (f *ListenerFuncs) OnTopicChanged(m *MindMap, e Event) {
	if f.Topic != nil {
		f.Topic(m, e)
	}
}

// AddListener registers l. Listeners are compared by identity and a listener
// already registered is not added twice.
func (m *MindMap) AddListener(l Listener) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	if slices.Contains(m.listeners, l) {
		return
	}
	m.listeners = append(m.listeners, l)
}

// RemoveListener unregisters l and reports whether it was registered.
func (m *MindMap) RemoveListener(l Listener) bool {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	i := slices.Index(m.listeners, l)
	if i < 0 {
		return false
	}
	m.listeners = slices.Delete(m.listeners, i, i+1)
	return true
}

// fire must be called without m.mu held.
func (m *MindMap) fire(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.listenersMu.Lock()
	listeners := slices.Clone(m.listeners)
	m.listenersMu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			m.deliver(l, e)
		}
	}
}

func (m *MindMap) deliver(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(context.Background(), "Panic in mind map listener", log.Fields{
				"event": e.Kind.String(),
				"path":  e.Path,
				"panic": r,
			})
		}
	}()
	switch e.Kind {
	case EventStructureChanged:
		l.OnStructureChanged(m, e)
	case EventTopicChanged:
		l.OnTopicChanged(m, e)
	}
}
