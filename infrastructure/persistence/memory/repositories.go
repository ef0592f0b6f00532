// Package memory provides in-process repository implementations for local
// development and tests. They honor the same contracts as the DynamoDB
// versions, including nil-on-absent reads and no-op deletes.
package memory

import (
	"context"
	"sync"

	"memoryweb/application/ports"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
)

// MemoryRepository is an in-process ports.MemoryRepository
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]*entities.Memory // userID -> creation order
}

// NewMemoryRepository creates an empty in-process memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]*entities.Memory)}
}

// Save persists a memory (create or update)
func (r *MemoryRepository) Save(_ context.Context, memory *entities.Memory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[memory.UserID()]
	for i, existing := range list {
		if existing.ID().Equals(memory.ID()) {
			list[i] = memory
			return nil
		}
	}
	r.items[memory.UserID()] = append(list, memory)
	return nil
}

// GetByID retrieves a memory, returning nil when absent
func (r *MemoryRepository) GetByID(_ context.Context, userID string, id valueobjects.MemoryID) (*entities.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items[userID] {
		if m.ID().Equals(id) {
			return m, nil
		}
	}
	return nil, nil
}

// GetByUserID retrieves all memories for a user in creation order
func (r *MemoryRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[userID]
	out := make([]*entities.Memory, len(list))
	copy(out, list)
	return out, nil
}

// Delete removes a memory; absent ids are a no-op
func (r *MemoryRepository) Delete(_ context.Context, userID string, id valueobjects.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[userID]
	for i, m := range list {
		if m.ID().Equals(id) {
			r.items[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

// EdgeRepository is an in-process ports.EdgeRepository. Pair keys dedupe
// writes; insertion order is preserved for deterministic clustering.
type EdgeRepository struct {
	mu     sync.RWMutex
	edges  map[string][]*entities.Edge // userID -> insertion order
	byPair map[string]map[string]int   // userID -> pair key -> index
}

// NewEdgeRepository creates an empty in-process edge repository
func NewEdgeRepository() *EdgeRepository {
	return &EdgeRepository{
		edges:  make(map[string][]*entities.Edge),
		byPair: make(map[string]map[string]int),
	}
}

// SaveBatch persists a set of edges
func (r *EdgeRepository) SaveBatch(_ context.Context, userID string, edges []*entities.Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pairs := r.byPair[userID]
	if pairs == nil {
		pairs = make(map[string]int)
		r.byPair[userID] = pairs
	}
	for _, e := range edges {
		key := e.PairKey()
		if i, ok := pairs[key]; ok {
			r.edges[userID][i] = e
			continue
		}
		pairs[key] = len(r.edges[userID])
		r.edges[userID] = append(r.edges[userID], e)
	}
	return nil
}

// GetByUserID retrieves all edges for a user in insertion order
func (r *EdgeRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.edges[userID]
	out := make([]*entities.Edge, len(list))
	copy(out, list)
	return out, nil
}

// DeleteByMemoryID removes every edge touching a memory
func (r *EdgeRepository) DeleteByMemoryID(_ context.Context, userID string, memoryID valueobjects.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*entities.Edge
	pairs := make(map[string]int)
	for _, e := range r.edges[userID] {
		if e.Touches(memoryID) {
			continue
		}
		pairs[e.PairKey()] = len(kept)
		kept = append(kept, e)
	}
	r.edges[userID] = kept
	r.byPair[userID] = pairs
	return nil
}

// CollectionRepository is an in-process ports.CollectionRepository
type CollectionRepository struct {
	mu    sync.RWMutex
	items map[string][]*entities.Collection
}

// NewCollectionRepository creates an empty in-process collection repository
func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{items: make(map[string][]*entities.Collection)}
}

// Save persists a collection (create or update)
func (r *CollectionRepository) Save(_ context.Context, collection *entities.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[collection.UserID()]
	for i, existing := range list {
		if existing.ID() == collection.ID() {
			list[i] = collection
			return nil
		}
	}
	r.items[collection.UserID()] = append(list, collection)
	return nil
}

// GetByID retrieves a collection, returning nil when absent
func (r *CollectionRepository) GetByID(_ context.Context, userID, id string) (*entities.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items[userID] {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, nil
}

// GetByUserID retrieves all collections for a user
func (r *CollectionRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[userID]
	out := make([]*entities.Collection, len(list))
	copy(out, list)
	return out, nil
}

// Delete removes a collection
func (r *CollectionRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[userID]
	for i, c := range list {
		if c.ID() == id {
			r.items[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

// EventBus is an in-process ports.EventBus that records published events,
// useful for local development and assertions in tests
type EventBus struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

// NewEventBus creates an empty recording event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish records the events
func (b *EventBus) Publish(_ context.Context, evts ...events.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evts...)
	return nil
}

// Published returns a copy of everything published so far
func (b *EventBus) Published() []events.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

var (
	_ ports.MemoryRepository     = (*MemoryRepository)(nil)
	_ ports.EdgeRepository       = (*EdgeRepository)(nil)
	_ ports.CollectionRepository = (*CollectionRepository)(nil)
	_ ports.EventBus             = (*EventBus)(nil)
)
