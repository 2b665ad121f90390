// Package selection holds the set of providers the user has picked.
package selection

import (
	"context"
	"slices"

	"github.com/stack-auth/stack-quickstart/internal/pubsub"
)

// Changed is published after every mutation with the resulting ids.
type Changed struct {
	IDs []string
}

// Store is an insertion-ordered set of provider ids. It is owned by a single
// UI loop and is not safe for concurrent mutation; subscribers receive copies.
type Store struct {
	ids    []string
	broker *pubsub.Broker[Changed]
}

// NewStore returns a store seeded with initial, skipping duplicates.
func NewStore(initial ...string) *Store {
	s := &Store{broker: pubsub.NewBroker[Changed]()}
	for _, id := range initial {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle removes id if present and appends it otherwise. Ids outside the
// catalog are accepted; callers only offer catalog ids. It reports whether
// id is selected afterwards.
func (s *Store) Toggle(id string) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		s.publish(pubsub.EventTypeUpdated)
		return false
	}
	s.ids = append(s.ids, id)
	s.publish(pubsub.EventTypeUpdated)
	return true
}

func (s *Store) Clear() {
	s.ids = nil
	s.publish(pubsub.EventTypeCleared)
}

func (s *Store) HasSelection() bool {
	return len(s.ids) > 0
}

func (s *Store) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

func (s *Store) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selection in insertion order.
func (s *Store) IDs() []string {
	if len(s.ids) == 0 {
		return nil
	}
	return slices.Clone(s.ids)
}

func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Changed] {
	return s.broker.Subscribe(ctx)
}

func (s *Store) Shutdown() {
	s.broker.Shutdown()
}

func (s *Store) publish(t pubsub.EventType) {
	s.broker.Publish(t, Changed{IDs: s.IDs()})
}
