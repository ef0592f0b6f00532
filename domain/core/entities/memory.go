package entities

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"memoryweb/domain/config"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
	pkgerrors "memoryweb/pkg/errors"
)

// Memory is the main entity representing one user-authored record.
// This is a rich domain model with encapsulated business logic.
type Memory struct {
	// Private fields ensure encapsulation
	id           valueobjects.MemoryID
	userID       string
	content      valueobjects.MemoryContent
	tags         valueobjects.TagSet
	images       []string
	links        []string
	collectionID string // optional organizational collection, "" when unassigned
	position     valueobjects.Position

	// Animation seeds: randomized once at creation so every memory
	// pulses and jitters differently but reproducibly across frames.
	glitchIntensity float64 // [0,1)
	pulsePhase      float64 // [0,2π)

	createdAt time.Time
	updatedAt time.Time
	version   int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewMemory creates a new memory with full business rule validation
func NewMemory(userID string, content valueobjects.MemoryContent, tags []string) (*Memory, error) {
	return NewMemoryWithConfig(userID, content, tags, config.DefaultDomainConfig())
}

// NewMemoryWithConfig creates a new memory with validation and configuration
func NewMemoryWithConfig(userID string, content valueobjects.MemoryContent, tags []string, cfg *config.DomainConfig) (*Memory, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	tagSet := valueobjects.NewTagSet(tags)
	if tagSet.Len() > cfg.MaxTagsPerMemory {
		return nil, fmt.Errorf("maximum tags reached: %d", cfg.MaxTagsPerMemory)
	}

	now := time.Now()
	memory := &Memory{
		id:              valueobjects.NewMemoryID(),
		userID:          userID,
		content:         content,
		tags:            tagSet,
		images:          []string{},
		links:           []string{},
		position:        valueobjects.RandomPosition(cfg.PositionSpread),
		glitchIntensity: rand.Float64(),
		pulsePhase:      rand.Float64() * 2 * math.Pi,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
		events:          []events.DomainEvent{},
	}

	memory.addEvent(events.NewMemoryCreated(
		memory.id,
		userID,
		content.Title(),
		tagSet.Tags(),
		now,
	))

	return memory, nil
}

// ReconstructMemory rebuilds a memory from repository data with preserved
// timestamps, position, and animation seeds
func ReconstructMemory(
	id valueobjects.MemoryID,
	userID string,
	content valueobjects.MemoryContent,
	tags []string,
	images []string,
	links []string,
	collectionID string,
	position valueobjects.Position,
	glitchIntensity float64,
	pulsePhase float64,
	createdAt, updatedAt time.Time,
) (*Memory, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	if images == nil {
		images = []string{}
	}
	if links == nil {
		links = []string{}
	}

	return &Memory{
		id:              id,
		userID:          userID,
		content:         content,
		tags:            valueobjects.NewTagSet(tags),
		images:          images,
		links:           links,
		collectionID:    collectionID,
		position:        position,
		glitchIntensity: glitchIntensity,
		pulsePhase:      pulsePhase,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         1,
		events:          []events.DomainEvent{},
	}, nil
}

// ID returns the memory's unique identifier
func (m *Memory) ID() valueobjects.MemoryID {
	return m.id
}

// UserID returns the owner's ID
func (m *Memory) UserID() string {
	return m.userID
}

// Content returns the memory's content
func (m *Memory) Content() valueobjects.MemoryContent {
	return m.content
}

// Tags returns the memory's tag set
func (m *Memory) Tags() valueobjects.TagSet {
	return m.tags
}

// Images returns a copy of the attached image references
func (m *Memory) Images() []string {
	images := make([]string, len(m.images))
	copy(images, m.images)
	return images
}

// Links returns a copy of the attached links
func (m *Memory) Links() []string {
	links := make([]string, len(m.links))
	copy(links, m.links)
	return links
}

// CollectionID returns the organizational collection, "" when unassigned
func (m *Memory) CollectionID() string {
	return m.collectionID
}

// Position returns the memory's 3D position
func (m *Memory) Position() valueobjects.Position {
	return m.position
}

// GlitchIntensity returns the per-memory jitter seed
func (m *Memory) GlitchIntensity() float64 {
	return m.glitchIntensity
}

// PulsePhase returns the per-memory pulse phase seed
func (m *Memory) PulsePhase() float64 {
	return m.pulsePhase
}

// CreatedAt returns when the memory was recorded
func (m *Memory) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the memory was last modified
func (m *Memory) UpdatedAt() time.Time {
	return m.updatedAt
}

// Version returns the memory's version for optimistic locking
func (m *Memory) Version() int {
	return m.version
}

// UpdateContent replaces the memory's content with validation
func (m *Memory) UpdateContent(content valueobjects.MemoryContent) error {
	if content.IsEmpty() {
		return pkgerrors.NewValidationError("content cannot be empty")
	}

	if content.Equals(m.content) {
		return nil // No change needed
	}

	m.content = content
	m.updatedAt = time.Now()
	m.version++

	m.addEvent(events.NewMemoryContentUpdated(m.id, content.Title(), m.updatedAt))

	return nil
}

// ReplaceTags swaps the memory's tags for a new set. Edges touching this
// memory must be re-derived by the caller when this returns true.
func (m *Memory) ReplaceTags(tags []string) (bool, error) {
	return m.ReplaceTagsWithConfig(tags, config.DefaultDomainConfig())
}

// ReplaceTagsWithConfig swaps tags with a configured tag limit
func (m *Memory) ReplaceTagsWithConfig(tags []string, cfg *config.DomainConfig) (bool, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	newSet := valueobjects.NewTagSet(tags)
	if newSet.Len() > cfg.MaxTagsPerMemory {
		return false, fmt.Errorf("maximum tags reached: %d", cfg.MaxTagsPerMemory)
	}

	if newSet.Equals(m.tags) {
		return false, nil
	}

	oldTags := m.tags.Tags()
	m.tags = newSet
	m.updatedAt = time.Now()
	m.version++

	m.addEvent(events.NewMemoryTagsReplaced(m.id, m.userID, oldTags, newSet.Tags(), m.updatedAt))

	return true, nil
}

// AttachImage adds an opaque image path reference
func (m *Memory) AttachImage(path string) error {
	return m.AttachImageWithConfig(path, config.DefaultDomainConfig())
}

// AttachImageWithConfig adds an image reference with a configured limit
func (m *Memory) AttachImageWithConfig(path string, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if path == "" {
		return pkgerrors.NewValidationError("image path cannot be empty")
	}

	for _, existing := range m.images {
		if existing == path {
			return nil // Already attached
		}
	}

	if len(m.images) >= cfg.MaxImagesPerMemory {
		return fmt.Errorf("maximum images reached: %d", cfg.MaxImagesPerMemory)
	}

	m.images = append(m.images, path)
	m.updatedAt = time.Now()

	return nil
}

// AddLink attaches a URL to the memory
func (m *Memory) AddLink(url string) error {
	return m.AddLinkWithConfig(url, config.DefaultDomainConfig())
}

// AddLinkWithConfig attaches a URL with a configured limit
func (m *Memory) AddLinkWithConfig(url string, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if url == "" {
		return pkgerrors.NewValidationError("link cannot be empty")
	}

	for _, existing := range m.links {
		if existing == url {
			return nil // Already linked
		}
	}

	if len(m.links) >= cfg.MaxLinksPerMemory {
		return fmt.Errorf("maximum links reached: %d", cfg.MaxLinksPerMemory)
	}

	m.links = append(m.links, url)
	m.updatedAt = time.Now()

	return nil
}

// AssignToCollection places the memory in an organizational collection.
// This has no effect on derived edges or community clusters.
func (m *Memory) AssignToCollection(collectionID string) {
	if m.collectionID == collectionID {
		return
	}
	m.collectionID = collectionID
	m.updatedAt = time.Now()
}

// RemoveFromCollection clears the organizational collection
func (m *Memory) RemoveFromCollection() {
	m.AssignToCollection("")
}

// MoveTo moves the memory to a new 3D position
func (m *Memory) MoveTo(position valueobjects.Position) {
	if position.Equals(m.position) {
		return
	}
	m.position = position
	m.updatedAt = time.Now()
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *Memory) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (m *Memory) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (m *Memory) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}
