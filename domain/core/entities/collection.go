package entities

import (
	"strings"
	"time"

	"memoryweb/domain/events"
	pkgerrors "memoryweb/pkg/errors"

	"github.com/google/uuid"
)

// Collection is a user-named organizational grouping of memories. It is
// independent of the visualization's community clusters, which are derived
// at render time and never persisted.
type Collection struct {
	id          string
	userID      string
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time

	events []events.DomainEvent
}

// NewCollection creates a named collection
func NewCollection(userID, name, description string) (*Collection, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("collection name cannot be empty")
	}

	now := time.Now()
	collection := &Collection{
		id:          uuid.New().String(),
		userID:      userID,
		name:        name,
		description: strings.TrimSpace(description),
		createdAt:   now,
		updatedAt:   now,
		events:      []events.DomainEvent{},
	}

	collection.events = append(collection.events, events.NewCollectionCreated(collection.id, userID, name, now))

	return collection, nil
}

// ReconstructCollection rebuilds a collection from repository data
func ReconstructCollection(id, userID, name, description string, createdAt, updatedAt time.Time) (*Collection, error) {
	if id == "" || userID == "" || name == "" {
		return nil, pkgerrors.NewValidationError("collection id, userID, and name are required")
	}
	return &Collection{
		id:          id,
		userID:      userID,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the collection's unique identifier
func (c *Collection) ID() string {
	return c.id
}

// UserID returns the owner's ID
func (c *Collection) UserID() string {
	return c.userID
}

// Name returns the collection's name
func (c *Collection) Name() string {
	return c.name
}

// Description returns the collection's description
func (c *Collection) Description() string {
	return c.description
}

// CreatedAt returns when the collection was created
func (c *Collection) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the collection was last modified
func (c *Collection) UpdatedAt() time.Time {
	return c.updatedAt
}

// Rename changes the collection's name
func (c *Collection) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("collection name cannot be empty")
	}
	if name == c.name {
		return nil
	}
	c.name = name
	c.updatedAt = time.Now()
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (c *Collection) GetUncommittedEvents() []events.DomainEvent {
	return c.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (c *Collection) MarkEventsAsCommitted() {
	c.events = []events.DomainEvent{}
}
