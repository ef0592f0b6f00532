package entities

import (
	"math/rand"
	"strings"
	"time"

	"memoryweb/domain/core/valueobjects"

	"github.com/google/uuid"
)

// Edge is a derived connection between two memories that share at least one
// tag. Edges are never authored directly: they are always re-derivable from
// the current memory set, and an edge with zero shared tags must not exist.
type Edge struct {
	ID         string
	SourceID   valueobjects.MemoryID
	TargetID   valueobjects.MemoryID
	SharedTags []string

	// GlitchOffset is a random animation seed in [0,10), stable for the
	// edge's lifetime.
	GlitchOffset float64

	CreatedAt time.Time
}

// NewEdge creates an edge between two memories. SharedTags must be non-empty
// and ordered by the source memory's tag order; callers derive it via the
// connection deriver rather than constructing it ad hoc.
func NewEdge(sourceID, targetID valueobjects.MemoryID, sharedTags []string) *Edge {
	return &Edge{
		ID:           uuid.New().String(),
		SourceID:     sourceID,
		TargetID:     targetID,
		SharedTags:   sharedTags,
		GlitchOffset: rand.Float64() * 10,
		CreatedAt:    time.Now(),
	}
}

// Strength is the shared-tag count, used for visual weight and cluster
// merge eligibility
func (e *Edge) Strength() int {
	return len(e.SharedTags)
}

// Touches reports whether either endpoint is the given memory
func (e *Edge) Touches(id valueobjects.MemoryID) bool {
	return e.SourceID.Equals(id) || e.TargetID.Equals(id)
}

// OtherEnd returns the opposite endpoint, or false if the id is not an
// endpoint of this edge
func (e *Edge) OtherEnd(id valueobjects.MemoryID) (valueobjects.MemoryID, bool) {
	switch {
	case e.SourceID.Equals(id):
		return e.TargetID, true
	case e.TargetID.Equals(id):
		return e.SourceID, true
	default:
		return valueobjects.MemoryID{}, false
	}
}

// PairKey returns a direction-independent identity for the edge's endpoints.
// At most one edge may exist per key.
func (e *Edge) PairKey() string {
	return PairKey(e.SourceID, e.TargetID)
}

// PairKey builds the canonical unordered key for two memory ids
func PairKey(a, b valueobjects.MemoryID) string {
	first, second := a.String(), b.String()
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}
	return first + "|" + second
}
