package services

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

func TestDeriveAllEdges(t *testing.T) {
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db", "go", "food")
	c := buildMemory(t, "C", "food")
	d := buildMemory(t, "D") // no tags, never connects

	edges := DeriveAllEdges([]*entities.Memory{a, b, c, d})

	require.Len(t, edges, 2)

	// A-B ordered by A's tags, B-C by B's.
	assert.True(t, edges[0].SourceID.Equals(a.ID()))
	assert.True(t, edges[0].TargetID.Equals(b.ID()))
	assert.Equal(t, []string{"go", "db"}, edges[0].SharedTags)

	assert.True(t, edges[1].SourceID.Equals(b.ID()))
	assert.True(t, edges[1].TargetID.Equals(c.ID()))
	assert.Equal(t, []string{"food"}, edges[1].SharedTags)
}

func TestDeriveAllEdges_NoSharedTags(t *testing.T) {
	a := buildMemory(t, "A", "go")
	b := buildMemory(t, "B", "rust")

	assert.Empty(t, DeriveAllEdges([]*entities.Memory{a, b}))
	assert.Empty(t, DeriveAllEdges([]*entities.Memory{a}))
	assert.Empty(t, DeriveAllEdges(nil))
}

func TestDeriveEdgesForMemory_AgreesWithFullRecompute(t *testing.T) {
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db")
	c := buildMemory(t, "C", "go", "food")
	all := []*entities.Memory{a, b, c}

	incremental := DeriveEdgesForMemory(a, all)

	var expected []string
	for _, edge := range DeriveAllEdges(all) {
		if edge.Touches(a.ID()) {
			expected = append(expected, edge.PairKey())
		}
	}

	var got []string
	for _, edge := range incremental {
		got = append(got, edge.PairKey())
	}
	assert.ElementsMatch(t, expected, got)
}

func TestDeriveEdgesForMemory_SkipsSelf(t *testing.T) {
	a := buildMemory(t, "A", "go")

	edges := DeriveEdgesForMemory(a, []*entities.Memory{a})
	assert.Empty(t, edges)

	assert.Nil(t, DeriveEdgesForMemory(nil, []*entities.Memory{a}))
}

func TestMergeEdges_ExistingWins(t *testing.T) {
	a := valueobjects.NewMemoryID()
	b := valueobjects.NewMemoryID()
	c := valueobjects.NewMemoryID()

	existing := entities.NewEdge(a, b, []string{"go"})
	duplicate := entities.NewEdge(b, a, []string{"go"}) // same pair, reversed
	fresh := entities.NewEdge(a, c, []string{"db"})

	merged := MergeEdges([]*entities.Edge{existing}, []*entities.Edge{duplicate, fresh})

	require.Len(t, merged, 2)
	// The stored edge keeps its identity so animation seeds stay stable.
	assert.Equal(t, existing.ID, merged[0].ID)
	assert.Equal(t, fresh.ID, merged[1].ID)
}

func TestSharedTagsBetween(t *testing.T) {
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db")

	assert.Equal(t, []string{"db"}, SharedTagsBetween(a, b))
	assert.Nil(t, SharedTagsBetween(a, nil))
	assert.Nil(t, SharedTagsBetween(nil, b))
}

func TestTagMembership(t *testing.T) {
	a := buildMemory(t, "A", "go", "db")
	b := buildMemory(t, "B", "db")

	membership := TagMembership([]*entities.Memory{a, b, nil})

	require.Len(t, membership, 2)
	require.Len(t, membership["db"], 2)
	assert.True(t, membership["db"][0].Equals(a.ID()))
	assert.True(t, membership["db"][1].Equals(b.ID()))
	require.Len(t, membership["go"], 1)
}
