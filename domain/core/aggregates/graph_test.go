package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
)

func buildMemory(t *testing.T, title string, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "", valueobjects.FormatPlainText)
	require.NoError(t, err)
	memory, err := entities.NewMemory("user-1", content, tags)
	require.NoError(t, err)
	return memory
}

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	graph, err := NewGraph("user-1", "")
	require.NoError(t, err)
	return graph
}

func TestNewGraph_RequiresUser(t *testing.T) {
	_, err := NewGraph("", "name")
	assert.Error(t, err)

	graph := newTestGraph(t)
	assert.Equal(t, "Memory Web", graph.Name())
}

func TestGraph_AddMemoryDerivesEdges(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db")
	c := buildMemory(t, "C", "rust")

	assert.Empty(t, graph.AddMemory(a))

	added := graph.AddMemory(b)
	require.Len(t, added, 1)
	assert.Equal(t, []string{"db"}, added[0].SharedTags)

	assert.Empty(t, graph.AddMemory(c))
	assert.Equal(t, 3, graph.MemoryCount())
	assert.Equal(t, 1, graph.EdgeCount())

	// Duplicate insert is a no-op.
	assert.Nil(t, graph.AddMemory(a))
	assert.Equal(t, 3, graph.MemoryCount())
}

func TestGraph_RemoveMemoryCascades(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db", "food")
	c := buildMemory(t, "C", "food")
	graph.AddMemory(a)
	graph.AddMemory(b)
	graph.AddMemory(c)
	require.Equal(t, 2, graph.EdgeCount()) // A-B, B-C

	removed := graph.RemoveMemory(b.ID())

	assert.True(t, removed)
	assert.Equal(t, 2, graph.MemoryCount())
	assert.Equal(t, 0, graph.EdgeCount())
	_, ok := graph.EdgeBetween(a.ID(), b.ID())
	assert.False(t, ok)

	assert.False(t, graph.RemoveMemory(b.ID()))
}

func TestGraph_UpdateMemoryTags(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go")
	b := buildMemory(t, "B", "go")
	c := buildMemory(t, "C", "food")
	graph.AddMemory(a)
	graph.AddMemory(b)
	graph.AddMemory(c)
	require.Equal(t, 1, graph.EdgeCount())

	// Retagging A drops A-B and creates A-C.
	added := graph.UpdateMemoryTags(a.ID(), []string{"food"})

	require.Len(t, added, 1)
	assert.True(t, added[0].Touches(c.ID()))
	assert.Equal(t, 1, graph.EdgeCount())
	_, ok := graph.EdgeBetween(a.ID(), b.ID())
	assert.False(t, ok)
	_, ok = graph.EdgeBetween(a.ID(), c.ID())
	assert.True(t, ok)
}

func TestGraph_UpdateMemoryTags_Unknown(t *testing.T) {
	graph := newTestGraph(t)

	assert.Nil(t, graph.UpdateMemoryTags(valueobjects.NewMemoryID(), []string{"go"}))
}

func TestGraph_Adjacency(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "go")
	c := buildMemory(t, "C", "db")
	graph.AddMemory(a)
	graph.AddMemory(b)
	graph.AddMemory(c)

	neighbors := graph.Adjacency(a.ID())
	require.Len(t, neighbors, 2)
	assert.True(t, neighbors[0].Equals(b.ID()))
	assert.True(t, neighbors[1].Equals(c.ID()))

	assert.Empty(t, graph.Adjacency(valueobjects.NewMemoryID()))
}

func TestGraph_RestoreEdges(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go")
	b := buildMemory(t, "B", "go")
	graph.AddMemory(a)
	graph.AddMemory(b)

	stranger := valueobjects.NewMemoryID()
	valid := entities.NewEdge(a.ID(), b.ID(), []string{"go"})
	duplicate := entities.NewEdge(b.ID(), a.ID(), []string{"go"})
	dangling := entities.NewEdge(a.ID(), stranger, []string{"go"})
	selfLoop := entities.NewEdge(a.ID(), a.ID(), []string{"go"})

	graph.RestoreEdges([]*entities.Edge{valid, duplicate, dangling, selfLoop, nil})

	assert.Equal(t, 1, graph.EdgeCount())
	restored, ok := graph.EdgeBetween(a.ID(), b.ID())
	require.True(t, ok)
	assert.Equal(t, valid.ID, restored.ID)
}

func TestGraph_MemoriesInInsertionOrder(t *testing.T) {
	graph := newTestGraph(t)
	a := buildMemory(t, "A", "go")
	b := buildMemory(t, "B", "db")
	graph.AddMemory(a)
	graph.AddMemory(b)

	memories := graph.Memories()
	require.Len(t, memories, 2)
	assert.True(t, memories[0].ID().Equals(a.ID()))
	assert.True(t, memories[1].ID().Equals(b.ID()))
}
