package ports

import (
	"context"

	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
)

// MemoryRepository defines the interface for memory persistence
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation
type MemoryRepository interface {
	// Save persists a memory (create or update)
	Save(ctx context.Context, memory *entities.Memory) error

	// GetByID retrieves a memory; returns nil (no error) when absent so
	// the interactive loop stays resilient to async-load races
	GetByID(ctx context.Context, userID string, id valueobjects.MemoryID) (*entities.Memory, error)

	// GetByUserID retrieves all memories for a user in creation order
	GetByUserID(ctx context.Context, userID string) ([]*entities.Memory, error)

	// Delete removes a memory; deleting an absent id is a no-op
	Delete(ctx context.Context, userID string, id valueobjects.MemoryID) error
}

// EdgeRepository defines the interface for derived-edge persistence.
// Edges are write-through mirrors of the in-memory graph: always
// re-derivable, never authored.
type EdgeRepository interface {
	// SaveBatch persists a set of edges
	SaveBatch(ctx context.Context, userID string, edges []*entities.Edge) error

	// GetByUserID retrieves all edges for a user in insertion order
	GetByUserID(ctx context.Context, userID string) ([]*entities.Edge, error)

	// DeleteByMemoryID removes every edge touching a memory
	DeleteByMemoryID(ctx context.Context, userID string, memoryID valueobjects.MemoryID) error
}

// CollectionRepository defines the interface for organizational collections
type CollectionRepository interface {
	// Save persists a collection (create or update)
	Save(ctx context.Context, collection *entities.Collection) error

	// GetByID retrieves a collection; nil when absent
	GetByID(ctx context.Context, userID, id string) (*entities.Collection, error)

	// GetByUserID retrieves all collections for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.Collection, error)

	// Delete removes a collection; member memories keep existing with the
	// membership cleared by the caller
	Delete(ctx context.Context, userID, id string) error
}

// EventBus publishes domain events to interested consumers
type EventBus interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// Cache is a small read-through cache for query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string)
}
