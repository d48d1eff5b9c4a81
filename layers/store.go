// Package layers holds the in-memory output layers of a pipeline run: the
// dense node layer plus one thinned layer per zoom band. Sinks (file
// writers, database repositories, metrics) subscribe for change events
// rather than polling.
package layers

import (
	"sync"

	"github.com/tilecraft/shieldgen/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventLayerUpdated EventType = iota
)

// Event is emitted to subscribers when a layer is written.
type Event struct {
	Type  EventType
	Name  string
	Zoom  int
	Count int
}

// Store is a thread-safe map of named point layers.
type Store struct {
	mu sync.RWMutex

	layers map[string]model.PointSet
	zooms  map[string]int
	names  []string

	subs []func(Event)
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		layers: make(map[string]model.PointSet),
		zooms:  make(map[string]int),
	}
}

// Put stores a layer under name, replacing any previous contents. The point
// set is copied so later stages cannot alias the stored layer. Zoom is 0 for
// untagged layers (the dense node layer).
func (s *Store) Put(name string, zoom int, points model.PointSet) {
	s.mu.Lock()
	if _, exists := s.layers[name]; !exists {
		s.names = append(s.names, name)
	}
	s.layers[name] = append(model.PointSet(nil), points...)
	s.zooms[name] = zoom
	event := Event{
		Type:  EventLayerUpdated,
		Name:  name,
		Zoom:  zoom,
		Count: len(points),
	}
	subs := append(([]func(Event))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// Get returns a copy of the named layer and whether it exists.
func (s *Store) Get(name string) (model.PointSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.layers[name]
	if !ok {
		return nil, false
	}
	return append(model.PointSet(nil), points...), true
}

// Zoom returns the zoom tag recorded for a layer, 0 if absent.
func (s *Store) Zoom(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zooms[name]
}

// Names returns layer names in first-put order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Subscribe registers a callback invoked after every Put. Callbacks run
// outside the store lock, so subscribers may call back into the store.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
