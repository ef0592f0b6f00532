package queries

import (
	"time"

	"memoryweb/pkg/utils"
)

// GetGraphDataQuery fetches a user's full graph: memories, derived edges,
// and summary stats.
type GetGraphDataQuery struct {
	UserID string `validate:"required"`
}

// Validate checks the query's invariants
func (q GetGraphDataQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GraphMemory is the wire shape of a memory node
type GraphMemory struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	Format          string    `json:"format"`
	Tags            []string  `json:"tags"`
	Images          []string  `json:"images,omitempty"`
	Links           []string  `json:"links,omitempty"`
	CollectionID    string    `json:"collectionId,omitempty"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Z               float64   `json:"z"`
	GlitchIntensity float64   `json:"glitchIntensity"`
	PulsePhase      float64   `json:"pulsePhase"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GraphEdge is the wire shape of a derived edge
type GraphEdge struct {
	ID           string   `json:"id"`
	SourceID     string   `json:"sourceId"`
	TargetID     string   `json:"targetId"`
	SharedTags   []string `json:"sharedTags"`
	Strength     int      `json:"strength"`
	GlitchOffset float64  `json:"glitchOffset"`
}

// GraphStats summarizes a graph
type GraphStats struct {
	MemoryCount int `json:"memoryCount"`
	EdgeCount   int `json:"edgeCount"`
	TagCount    int `json:"tagCount"`
}

// GetGraphDataResult is the assembled graph payload
type GetGraphDataResult struct {
	Memories []GraphMemory `json:"memories"`
	Edges    []GraphEdge   `json:"edges"`
	Stats    GraphStats    `json:"stats"`
}

// GetMemoryQuery fetches a single memory by id
type GetMemoryQuery struct {
	UserID   string `validate:"required"`
	MemoryID string `validate:"required,uuid4"`
}

// Validate checks the query's invariants
func (q GetMemoryQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListCollectionsQuery fetches a user's collections
type ListCollectionsQuery struct {
	UserID string `validate:"required"`
}

// Validate checks the query's invariants
func (q ListCollectionsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CollectionView is the wire shape of a collection
type CollectionView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
