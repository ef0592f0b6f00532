package events

import (
	"time"

	"memoryweb/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Memory events

// MemoryCreated is raised when a new memory is recorded.
// Tags are carried on the event so the connect-memory Lambda can derive
// edges without reloading the memory.
type MemoryCreated struct {
	BaseEvent
	MemoryID valueobjects.MemoryID `json:"memory_id"`
	UserID   string                `json:"user_id"`
	Title    string                `json:"title"`
	Tags     []string              `json:"tags"`
}

// NewMemoryCreated creates a MemoryCreated event
func NewMemoryCreated(memoryID valueobjects.MemoryID, userID, title string, tags []string, timestamp time.Time) MemoryCreated {
	return MemoryCreated{
		BaseEvent: BaseEvent{
			AggregateID: memoryID.String(),
			EventType:   "memory.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		MemoryID: memoryID,
		UserID:   userID,
		Title:    title,
		Tags:     tags,
	}
}

// MemoryContentUpdated is raised when the text of a memory changes
type MemoryContentUpdated struct {
	BaseEvent
	MemoryID valueobjects.MemoryID `json:"memory_id"`
	Title    string                `json:"title"`
}

// NewMemoryContentUpdated creates a MemoryContentUpdated event
func NewMemoryContentUpdated(memoryID valueobjects.MemoryID, title string, timestamp time.Time) MemoryContentUpdated {
	return MemoryContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: memoryID.String(),
			EventType:   "memory.content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		MemoryID: memoryID,
		Title:    title,
	}
}

// MemoryTagsReplaced is raised when a memory's tags change.
// Edge derivation for the memory must be rerun when this event is seen.
type MemoryTagsReplaced struct {
	BaseEvent
	MemoryID valueobjects.MemoryID `json:"memory_id"`
	UserID   string                `json:"user_id"`
	OldTags  []string              `json:"old_tags"`
	NewTags  []string              `json:"new_tags"`
}

// NewMemoryTagsReplaced creates a MemoryTagsReplaced event
func NewMemoryTagsReplaced(memoryID valueobjects.MemoryID, userID string, oldTags, newTags []string, timestamp time.Time) MemoryTagsReplaced {
	return MemoryTagsReplaced{
		BaseEvent: BaseEvent{
			AggregateID: memoryID.String(),
			EventType:   "memory.tags_replaced",
			Timestamp:   timestamp,
			Version:     1,
		},
		MemoryID: memoryID,
		UserID:   userID,
		OldTags:  oldTags,
		NewTags:  newTags,
	}
}

// MemoryDeleted is raised when a memory is removed.
// Every edge touching the memory is removed in the same operation.
type MemoryDeleted struct {
	BaseEvent
	MemoryID valueobjects.MemoryID `json:"memory_id"`
	UserID   string                `json:"user_id"`
}

// NewMemoryDeleted creates a MemoryDeleted event
func NewMemoryDeleted(memoryID valueobjects.MemoryID, userID string, timestamp time.Time) MemoryDeleted {
	return MemoryDeleted{
		BaseEvent: BaseEvent{
			AggregateID: memoryID.String(),
			EventType:   "memory.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		MemoryID: memoryID,
		UserID:   userID,
	}
}

// EdgesDerived is raised after the connection deriver recomputes the edges
// touching one memory
type EdgesDerived struct {
	BaseEvent
	MemoryID  valueobjects.MemoryID `json:"memory_id"`
	UserID    string                `json:"user_id"`
	EdgeCount int                   `json:"edge_count"`
}

// NewEdgesDerived creates an EdgesDerived event
func NewEdgesDerived(memoryID valueobjects.MemoryID, userID string, edgeCount int, timestamp time.Time) EdgesDerived {
	return EdgesDerived{
		BaseEvent: BaseEvent{
			AggregateID: memoryID.String(),
			EventType:   "memory.edges_derived",
			Timestamp:   timestamp,
			Version:     1,
		},
		MemoryID:  memoryID,
		UserID:    userID,
		EdgeCount: edgeCount,
	}
}

// Collection events

// CollectionCreated is raised when a user creates a named collection
type CollectionCreated struct {
	BaseEvent
	CollectionID string `json:"collection_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
}

// NewCollectionCreated creates a CollectionCreated event
func NewCollectionCreated(collectionID, userID, name string, timestamp time.Time) CollectionCreated {
	return CollectionCreated{
		BaseEvent: BaseEvent{
			AggregateID: collectionID,
			EventType:   "collection.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		CollectionID: collectionID,
		UserID:       userID,
		Name:         name,
	}
}
