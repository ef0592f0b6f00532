// Package services holds stateless domain services. The connection deriver
// computes the implicit shared-tag graph over a set of memories; the graph
// aggregate and the connect-memory Lambda both build on it.
package services

import (
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
)

// DeriveAllEdges computes one edge for every unordered pair of memories with
// a non-empty tag intersection. SharedTags is ordered by the first memory's
// tag order, filtered to tags the second also carries. Memories with nil or
// empty tags participate in zero edges.
//
// Pairwise comparison is O(n²·t); the intended working set is hundreds of
// memories, not millions.
func DeriveAllEdges(memories []*entities.Memory) []*entities.Edge {
	var edges []*entities.Edge
	for i := 0; i < len(memories); i++ {
		for j := i + 1; j < len(memories); j++ {
			if edge := deriveEdge(memories[i], memories[j]); edge != nil {
				edges = append(edges, edge)
			}
		}
	}
	return edges
}

// DeriveEdgesForMemory recomputes the edges touching one memory after its
// tags changed. Callers discard every existing edge touching target first;
// the result then agrees with a full DeriveAllEdges recompute restricted to
// edges touching target.
func DeriveEdgesForMemory(target *entities.Memory, all []*entities.Memory) []*entities.Edge {
	if target == nil {
		return nil
	}
	var edges []*entities.Edge
	for _, other := range all {
		if other == nil || other.ID().Equals(target.ID()) {
			continue
		}
		if edge := deriveEdge(target, other); edge != nil {
			edges = append(edges, edge)
		}
	}
	return edges
}

// MergeEdges unions fresh edges into an existing collection without
// duplicating a pair that is already present in either direction. Existing
// edges win so that their animation seeds stay stable.
func MergeEdges(existing, fresh []*entities.Edge) []*entities.Edge {
	merged := make([]*entities.Edge, 0, len(existing)+len(fresh))
	seen := make(map[string]bool, len(existing))
	for _, edge := range existing {
		if edge == nil || seen[edge.PairKey()] {
			continue
		}
		seen[edge.PairKey()] = true
		merged = append(merged, edge)
	}
	for _, edge := range fresh {
		if edge == nil || seen[edge.PairKey()] {
			continue
		}
		seen[edge.PairKey()] = true
		merged = append(merged, edge)
	}
	return merged
}

// SharedTagsBetween exposes the pairwise intersection without constructing
// an edge
func SharedTagsBetween(a, b *entities.Memory) []string {
	if a == nil || b == nil {
		return nil
	}
	return a.Tags().Intersect(b.Tags())
}

func deriveEdge(from, to *entities.Memory) *entities.Edge {
	if from.ID().Equals(to.ID()) {
		return nil
	}
	shared := from.Tags().Intersect(to.Tags())
	if len(shared) == 0 {
		return nil
	}
	return entities.NewEdge(from.ID(), to.ID(), shared)
}

// TagMembership groups memories by each tag they carry, preserving the
// order memories were given in. The tag-hub layout consumes this.
func TagMembership(memories []*entities.Memory) map[string][]valueobjects.MemoryID {
	membership := make(map[string][]valueobjects.MemoryID)
	for _, memory := range memories {
		if memory == nil {
			continue
		}
		for _, tag := range memory.Tags().Tags() {
			membership[tag] = append(membership[tag], memory.ID())
		}
	}
	return membership
}
