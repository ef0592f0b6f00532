// Package cluster implements the render-time community clustering pass: a
// greedy single-link agglomerative merge of memories into visual clusters
// driven by edge strength. Clusters are recomputed from scratch whenever the
// entity or edge set changes and are never persisted.
package cluster

import (
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/visualization/geometry"

	"go.uber.org/zap"
)

// palette colors are assigned by cluster index so a fixed input always
// renders with the same colors
var palette = []string{
	"#8b5cf6", "#06b6d4", "#22c55e", "#f59e0b", "#ef4444",
	"#14b8a6", "#eab308", "#3b82f6", "#d946ef", "#f97316",
}

// Cluster is a transient grouping of memories produced by the merge pass
type Cluster struct {
	ID         int
	Members    []*entities.Memory
	Centroid   geometry.Point
	MergedTags []string
	Color      string

	// Strength is the maximum shared-tag count among the edges absorbed
	// into this cluster; 0 for singletons.
	Strength int
}

// MemberCount returns the number of memories in the cluster
func (c *Cluster) MemberCount() int {
	return len(c.Members)
}

// Contains reports whether the memory belongs to this cluster
func (c *Cluster) Contains(id valueobjects.MemoryID) bool {
	for _, m := range c.Members {
		if m.ID().Equals(id) {
			return true
		}
	}
	return false
}

// Pass runs the community clustering algorithm
type Pass struct {
	logger *zap.Logger
}

// NewPass creates a clustering pass
func NewPass(logger *zap.Logger) *Pass {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pass{logger: logger}
}

// Compute merges memories into clusters. Starting from singletons, it
// repeatedly walks the edge list in order and merges the endpoint clusters
// of any edge whose strength meets the threshold, until a full pass makes
// no merge. Iterating edges in their stored insertion order keeps the
// partition deterministic for a fixed input.
//
// The fixed-point loop needs at most len(edges) passes; the cap below is a
// guard against a latent non-termination bug, not an expected path.
func (p *Pass) Compute(memories []*entities.Memory, edges []*entities.Edge, threshold int) []*Cluster {
	if threshold < 1 {
		threshold = 1
	}

	working := make([]*Cluster, 0, len(memories))
	clusterOf := make(map[valueobjects.MemoryID]*Cluster, len(memories))
	for _, memory := range memories {
		if memory == nil {
			continue
		}
		c := &Cluster{
			Members:    []*entities.Memory{memory},
			MergedTags: memory.Tags().Tags(),
		}
		recomputeCentroid(c)
		working = append(working, c)
		clusterOf[memory.ID()] = c
	}

	maxPasses := len(edges) + 1
	passes := 0
	for {
		merged := false
		for _, edge := range edges {
			if edge == nil || edge.Strength() < threshold {
				continue
			}
			a, okA := clusterOf[edge.SourceID]
			b, okB := clusterOf[edge.TargetID]
			if !okA || !okB || a == b {
				continue
			}
			merge(a, b, edge, clusterOf)
			merged = true
		}
		passes++
		if !merged {
			break
		}
		if passes >= maxPasses {
			p.logger.Warn("community clustering hit pass cap before fixed point",
				zap.Int("passes", passes),
				zap.Int("edges", len(edges)),
			)
			break
		}
	}

	// Surviving clusters in first-member order, ids and colors by index.
	result := make([]*Cluster, 0, len(working))
	seen := make(map[*Cluster]bool, len(working))
	for _, memory := range memories {
		if memory == nil {
			continue
		}
		c := clusterOf[memory.ID()]
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true
		c.ID = len(result)
		c.Color = palette[c.ID%len(palette)]
		result = append(result, c)
	}
	return result
}

// merge absorbs b into a: union member lists and tag sets, recompute the
// centroid as the mean of all member positions, and keep the maximum
// strength seen.
func merge(a, b *Cluster, edge *entities.Edge, clusterOf map[valueobjects.MemoryID]*Cluster) {
	a.Members = append(a.Members, b.Members...)
	a.MergedTags = unionTags(a.MergedTags, b.MergedTags)
	if b.Strength > a.Strength {
		a.Strength = b.Strength
	}
	if edge.Strength() > a.Strength {
		a.Strength = edge.Strength()
	}
	recomputeCentroid(a)
	for _, m := range b.Members {
		clusterOf[m.ID()] = a
	}
}

func recomputeCentroid(c *Cluster) {
	if len(c.Members) == 0 {
		c.Centroid = geometry.Point{}
		return
	}
	var sum geometry.Point
	for _, m := range c.Members {
		pos := m.Position()
		sum.X += pos.X()
		sum.Y += pos.Y()
		sum.Z += pos.Z()
	}
	n := float64(len(c.Members))
	c.Centroid = geometry.Point{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
}

func unionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, tags := range [][]string{a, b} {
		for _, tag := range tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
