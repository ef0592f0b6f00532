package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
)

func fixedMemory(t *testing.T, title string, x, y, z float64, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "", valueobjects.FormatPlainText)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition3D(x, y, z)
	require.NoError(t, err)
	now := time.Now()
	memory, err := entities.ReconstructMemory(
		valueobjects.NewMemoryID(), "user-1", content, tags,
		nil, nil, "", pos, 0, 0, now, now,
	)
	require.NoError(t, err)
	return memory
}

func sharedTags(n int) []string {
	tags := make([]string, n)
	names := []string{"go", "db", "infra", "food", "music"}
	copy(tags, names[:n])
	return tags
}

func TestPass_ThresholdSplitsWeakLinks(t *testing.T) {
	a := fixedMemory(t, "A", 0, 0, 0, "go")
	b := fixedMemory(t, "B", 10, 0, 0, "go", "db", "infra")
	c := fixedMemory(t, "C", 20, 0, 0, "db", "infra")

	weak := entities.NewEdge(a.ID(), b.ID(), sharedTags(1))
	strong := entities.NewEdge(b.ID(), c.ID(), []string{"db", "infra"})
	memories := []*entities.Memory{a, b, c}
	edges := []*entities.Edge{weak, strong}

	pass := NewPass(zap.NewNop())

	// Threshold 2: only the strong edge merges.
	clusters := pass.Compute(memories, edges, 2)
	require.Len(t, clusters, 2)
	assert.Equal(t, 1, clusters[0].MemberCount())
	assert.True(t, clusters[0].Contains(a.ID()))
	assert.Equal(t, 2, clusters[1].MemberCount())
	assert.True(t, clusters[1].Contains(b.ID()))
	assert.True(t, clusters[1].Contains(c.ID()))

	// Threshold 1: everything chains into one cluster.
	clusters = pass.Compute(memories, edges, 1)
	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].MemberCount())
}

func TestPass_DefaultsBelowMinimumThreshold(t *testing.T) {
	a := fixedMemory(t, "A", 0, 0, 0, "go")
	b := fixedMemory(t, "B", 0, 0, 0, "go")
	edge := entities.NewEdge(a.ID(), b.ID(), sharedTags(1))

	clusters := NewPass(nil).Compute([]*entities.Memory{a, b}, []*entities.Edge{edge}, 0)

	require.Len(t, clusters, 1)
	assert.Equal(t, 2, clusters[0].MemberCount())
}

func TestPass_TransitiveMerge(t *testing.T) {
	// Edge order deliberately merges the far end first; the chain still
	// collapses into a single cluster.
	a := fixedMemory(t, "A", 0, 0, 0, "go", "db")
	b := fixedMemory(t, "B", 0, 0, 0, "go", "db")
	c := fixedMemory(t, "C", 0, 0, 0, "go", "db")
	d := fixedMemory(t, "D", 0, 0, 0, "go", "db")

	edges := []*entities.Edge{
		entities.NewEdge(c.ID(), d.ID(), []string{"go", "db"}),
		entities.NewEdge(a.ID(), b.ID(), []string{"go", "db"}),
		entities.NewEdge(b.ID(), c.ID(), []string{"go", "db"}),
	}

	clusters := NewPass(zap.NewNop()).Compute([]*entities.Memory{a, b, c, d}, edges, 2)

	require.Len(t, clusters, 1)
	assert.Equal(t, 4, clusters[0].MemberCount())
}

func TestPass_Deterministic(t *testing.T) {
	a := fixedMemory(t, "A", 0, 0, 0, "go")
	b := fixedMemory(t, "B", 0, 0, 0, "go", "db")
	c := fixedMemory(t, "C", 0, 0, 0, "db")
	d := fixedMemory(t, "D", 0, 0, 0, "music")
	memories := []*entities.Memory{a, b, c, d}
	edges := []*entities.Edge{
		entities.NewEdge(a.ID(), b.ID(), sharedTags(1)),
		entities.NewEdge(b.ID(), c.ID(), []string{"db"}),
	}

	pass := NewPass(zap.NewNop())
	first := pass.Compute(memories, edges, 1)
	second := pass.Compute(memories, edges, 1)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Color, second[i].Color)
		assert.Equal(t, first[i].MemberCount(), second[i].MemberCount())
		assert.Equal(t, first[i].MergedTags, second[i].MergedTags)
	}
}

func TestPass_ClusterProperties(t *testing.T) {
	a := fixedMemory(t, "A", 0, 0, 0, "go", "db")
	b := fixedMemory(t, "B", 30, 60, 90, "db", "infra")
	edge := entities.NewEdge(a.ID(), b.ID(), []string{"db", "go"})

	clusters := NewPass(zap.NewNop()).Compute([]*entities.Memory{a, b}, []*entities.Edge{edge}, 2)

	require.Len(t, clusters, 1)
	cl := clusters[0]

	// Merged tags union in first-seen order, max absorbed strength, mean centroid.
	assert.Equal(t, []string{"go", "db", "infra"}, cl.MergedTags)
	assert.Equal(t, 2, cl.Strength)
	assert.InDelta(t, 15, cl.Centroid.X, 1e-9)
	assert.InDelta(t, 30, cl.Centroid.Y, 1e-9)
	assert.InDelta(t, 45, cl.Centroid.Z, 1e-9)
	assert.Equal(t, 0, cl.ID)
	assert.Equal(t, palette[0], cl.Color)
}

func TestPass_SingletonsKeepOwnTags(t *testing.T) {
	a := fixedMemory(t, "A", 1, 2, 3, "solo")

	clusters := NewPass(zap.NewNop()).Compute([]*entities.Memory{a}, nil, 3)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"solo"}, clusters[0].MergedTags)
	assert.Equal(t, 0, clusters[0].Strength)
	assert.InDelta(t, 1, clusters[0].Centroid.X, 1e-9)
}
