package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/visualization/cluster"
)

func clusterSnapshot(t *testing.T, threshold int, memories []*entities.Memory, edges []*entities.Edge) Snapshot {
	t.Helper()
	pass := cluster.NewPass(zap.NewNop())
	return Snapshot{
		Memories: memories,
		Edges:    edges,
		Clusters: pass.Compute(memories, edges, threshold),
	}
}

func TestClustered_BubblePerCluster(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewClustered(cfg)

	a := fixedMemory(t, "A", 0, 0, 0, "go", "db", "infra")
	b := fixedMemory(t, "B", 40, 0, 0, "go", "db", "infra")
	c := fixedMemory(t, "C", 200, 0, 0, "solo")
	edges := []*entities.Edge{entities.NewEdge(a.ID(), b.ID(), []string{"go", "db", "infra"})}

	snap := clusterSnapshot(t, 3, []*entities.Memory{a, b, c}, edges)
	result := engine.Compute(snap, neutralView(cfg))

	require.NotNil(t, result.Clustered)
	require.Len(t, result.Clustered.Bubbles, 2)

	pair := result.Clustered.Bubbles[0]
	assert.Equal(t, 2, pair.Cluster.MemberCount())
	// Centroid of (0,0,0) and (40,0,0) projects at x=20 from center.
	assert.InDelta(t, 420, pair.Screen.X, 1e-9)

	// Bubble radius grows with member count.
	solo := result.Clustered.Bubbles[1]
	assert.Greater(t, pair.Radius, solo.Radius)
}

func TestClustered_SmallClustersAutoExpand(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewClustered(cfg)

	a := fixedMemory(t, "A", 0, 0, 0, "go")
	b := fixedMemory(t, "B", 40, 0, 0, "go")
	edges := []*entities.Edge{entities.NewEdge(a.ID(), b.ID(), []string{"go"})}

	snap := clusterSnapshot(t, 1, []*entities.Memory{a, b}, edges)
	result := engine.Compute(snap, neutralView(cfg))

	require.Len(t, result.Clustered.Bubbles, 1)
	bubble := result.Clustered.Bubbles[0]
	// Two members is at or below the auto-expand size.
	assert.True(t, bubble.Expanded)
	require.Len(t, bubble.Members, 2)
}

func TestClustered_ExpandOnDemand(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewClustered(cfg)

	members := make([]*entities.Memory, 0, 5)
	var edges []*entities.Edge
	for i := 0; i < 5; i++ {
		m := fixedMemory(t, "M", float64(i*10), 0, 0, "go")
		if len(members) > 0 {
			edges = append(edges, entities.NewEdge(members[0].ID(), m.ID(), []string{"go"}))
		}
		members = append(members, m)
	}

	snap := clusterSnapshot(t, 1, members, edges)
	view := neutralView(cfg)

	collapsed := engine.Compute(snap, view)
	require.Len(t, collapsed.Clustered.Bubbles, 1)
	assert.False(t, collapsed.Clustered.Bubbles[0].Expanded)
	assert.Empty(t, collapsed.Clustered.Bubbles[0].Members)

	view.Expanded = map[int]bool{0: true}
	expanded := engine.Compute(snap, view)
	require.Len(t, expanded.Clustered.Bubbles, 1)
	assert.True(t, expanded.Clustered.Bubbles[0].Expanded)
	assert.Len(t, expanded.Clustered.Bubbles[0].Members, 5)
}

func TestClustered_HitTest(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewClustered(cfg)

	a := fixedMemory(t, "A", -30, 0, 0, "go")
	b := fixedMemory(t, "B", 30, 0, 0, "go")
	edges := []*entities.Edge{entities.NewEdge(a.ID(), b.ID(), []string{"go"})}

	snap := clusterSnapshot(t, 1, []*entities.Memory{a, b}, edges)
	view := neutralView(cfg)
	result := engine.Compute(snap, view)
	require.Len(t, result.Clustered.Bubbles, 1)
	bubble := result.Clustered.Bubbles[0]
	require.True(t, bubble.Expanded)

	// Members of expanded bubbles win over the bubble circle.
	hit := engine.HitTest(result, bubble.Members[0].Screen.X, bubble.Members[0].Screen.Y)
	require.NotNil(t, hit)
	assert.Equal(t, HitMemory, hit.Kind)
	assert.True(t, hit.MemoryID.Equals(a.ID()))

	assert.Nil(t, engine.HitTest(result, -10000, -10000))
	assert.Nil(t, engine.HitTest(nil, 0, 0))
}

func TestClustered_HitTestCollapsedBubble(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewClustered(cfg)

	members := make([]*entities.Memory, 0, 5)
	var edges []*entities.Edge
	for i := 0; i < 5; i++ {
		m := fixedMemory(t, "M", 0, 0, 0, "go")
		if len(members) > 0 {
			edges = append(edges, entities.NewEdge(members[0].ID(), m.ID(), []string{"go"}))
		}
		members = append(members, m)
	}

	snap := clusterSnapshot(t, 1, members, edges)
	view := neutralView(cfg)
	result := engine.Compute(snap, view)

	hit := engine.HitTest(result, view.OffsetX, view.OffsetY)
	require.NotNil(t, hit)
	assert.Equal(t, HitCluster, hit.Kind)
	assert.Equal(t, 0, hit.ClusterID)
}
