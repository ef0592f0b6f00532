package aggregates

import (
	"errors"
	"time"

	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/services"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"

	"github.com/google/uuid"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// Graph is the aggregate root holding the canonical memory and edge
// collections for one user's web. All mutation goes through it; clustering,
// layout, and interaction code read snapshots and never write.
//
// Edges are kept in insertion order so the community clustering pass
// iterates them deterministically.
type Graph struct {
	id     GraphID
	userID string
	name   string

	memories    map[valueobjects.MemoryID]*entities.Memory
	memoryOrder []valueobjects.MemoryID
	edges       []*entities.Edge
	edgesByPair map[string]*entities.Edge

	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewGraph creates an empty graph aggregate
func NewGraph(userID, name string) (*Graph, error) {
	if userID == "" {
		return nil, errors.New("userID required")
	}
	if name == "" {
		name = "Memory Web"
	}

	now := time.Now()
	return &Graph{
		id:          NewGraphID(),
		userID:      userID,
		name:        name,
		memories:    make(map[valueobjects.MemoryID]*entities.Memory),
		edgesByPair: make(map[string]*entities.Edge),
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the graph's unique identifier
func (g *Graph) ID() GraphID {
	return g.id
}

// UserID returns the owner's ID
func (g *Graph) UserID() string {
	return g.userID
}

// Name returns the graph's display name
func (g *Graph) Name() string {
	return g.name
}

// MemoryCount returns the number of memories
func (g *Graph) MemoryCount() int {
	return len(g.memories)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// CreatedAt returns when the graph was created
func (g *Graph) CreatedAt() time.Time {
	return g.createdAt
}

// UpdatedAt returns when the graph was last modified
func (g *Graph) UpdatedAt() time.Time {
	return g.updatedAt
}

// Version returns the graph's version
func (g *Graph) Version() int {
	return g.version
}

// Memory looks up one memory by id
func (g *Graph) Memory(id valueobjects.MemoryID) (*entities.Memory, bool) {
	memory, ok := g.memories[id]
	return memory, ok
}

// Memories returns the memories in insertion order
func (g *Graph) Memories() []*entities.Memory {
	out := make([]*entities.Memory, 0, len(g.memoryOrder))
	for _, id := range g.memoryOrder {
		if memory, ok := g.memories[id]; ok {
			out = append(out, memory)
		}
	}
	return out
}

// Edges returns a copy of the edge list in insertion order
func (g *Graph) Edges() []*entities.Edge {
	out := make([]*entities.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// AddMemory inserts a memory and derives its edges against every existing
// memory, returning the newly created edges. Adding nil or a duplicate id
// is a no-op returning nil.
func (g *Graph) AddMemory(memory *entities.Memory) []*entities.Edge {
	if memory == nil {
		return nil
	}
	if _, exists := g.memories[memory.ID()]; exists {
		return nil
	}

	existing := g.Memories()
	g.memories[memory.ID()] = memory
	g.memoryOrder = append(g.memoryOrder, memory.ID())

	fresh := services.DeriveEdgesForMemory(memory, existing)
	added := make([]*entities.Edge, 0, len(fresh))
	for _, edge := range fresh {
		if g.appendEdge(edge) {
			added = append(added, edge)
		}
	}

	g.touch()
	g.addEvent(events.NewEdgesDerived(memory.ID(), g.userID, len(added), g.updatedAt))
	return added
}

// RemoveMemory deletes a memory and cascades deletion of every edge that
// references it. Removing an unknown id is a no-op returning false.
func (g *Graph) RemoveMemory(id valueobjects.MemoryID) bool {
	if _, exists := g.memories[id]; !exists {
		return false
	}

	delete(g.memories, id)
	for i, existing := range g.memoryOrder {
		if existing.Equals(id) {
			g.memoryOrder = append(g.memoryOrder[:i], g.memoryOrder[i+1:]...)
			break
		}
	}
	g.dropEdgesTouching(id)

	g.touch()
	g.addEvent(events.NewMemoryDeleted(id, g.userID, g.updatedAt))
	return true
}

// UpdateMemoryTags replaces a memory's tags and re-derives only the edges
// touching it, returning the fresh edges. Unknown ids are a no-op returning
// nil; callers tolerate races between async load and interaction.
func (g *Graph) UpdateMemoryTags(id valueobjects.MemoryID, tags []string) []*entities.Edge {
	memory, exists := g.memories[id]
	if !exists {
		return nil
	}

	changed, err := memory.ReplaceTags(tags)
	if err != nil || !changed {
		return nil
	}

	g.dropEdgesTouching(id)

	fresh := services.DeriveEdgesForMemory(memory, g.Memories())
	added := make([]*entities.Edge, 0, len(fresh))
	for _, edge := range fresh {
		if g.appendEdge(edge) {
			added = append(added, edge)
		}
	}

	g.touch()
	g.addEvent(events.NewEdgesDerived(id, g.userID, len(added), g.updatedAt))
	return added
}

// Adjacency returns the neighbor ids of a memory, derived from the current
// edge list. Unknown ids yield an empty result.
func (g *Graph) Adjacency(id valueobjects.MemoryID) []valueobjects.MemoryID {
	var neighbors []valueobjects.MemoryID
	for _, edge := range g.edges {
		if other, ok := edge.OtherEnd(id); ok {
			neighbors = append(neighbors, other)
		}
	}
	return neighbors
}

// EdgeBetween looks up the edge for an unordered pair, if any
func (g *Graph) EdgeBetween(a, b valueobjects.MemoryID) (*entities.Edge, bool) {
	edge, ok := g.edgesByPair[entities.PairKey(a, b)]
	return edge, ok
}

// RestoreEdges replaces the edge list wholesale, used when loading a
// persisted graph. Duplicate pairs and edges referencing unknown memories
// are discarded.
func (g *Graph) RestoreEdges(edges []*entities.Edge) {
	g.edges = nil
	g.edgesByPair = make(map[string]*entities.Edge, len(edges))
	for _, edge := range edges {
		if edge == nil {
			continue
		}
		if _, ok := g.memories[edge.SourceID]; !ok {
			continue
		}
		if _, ok := g.memories[edge.TargetID]; !ok {
			continue
		}
		g.appendEdge(edge)
	}
}

// GetUncommittedEvents returns all uncommitted domain events
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (g *Graph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

func (g *Graph) appendEdge(edge *entities.Edge) bool {
	if edge == nil || len(edge.SharedTags) == 0 || edge.SourceID.Equals(edge.TargetID) {
		return false
	}
	key := edge.PairKey()
	if _, exists := g.edgesByPair[key]; exists {
		return false
	}
	g.edgesByPair[key] = edge
	g.edges = append(g.edges, edge)
	return true
}

func (g *Graph) dropEdgesTouching(id valueobjects.MemoryID) {
	kept := g.edges[:0]
	for _, edge := range g.edges {
		if edge.Touches(id) {
			delete(g.edgesByPair, edge.PairKey())
			continue
		}
		kept = append(kept, edge)
	}
	g.edges = kept
}

func (g *Graph) touch() {
	g.updatedAt = time.Now()
	g.version++
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}
