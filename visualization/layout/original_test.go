package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
)

func fixedMemory(t *testing.T, title string, x, y, z float64, tags ...string) *entities.Memory {
	t.Helper()
	return fixedMemoryAt(t, title, x, y, z, time.Now(), tags...)
}

func fixedMemoryAt(t *testing.T, title string, x, y, z float64, created time.Time, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "", valueobjects.FormatPlainText)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition3D(x, y, z)
	require.NoError(t, err)
	memory, err := entities.ReconstructMemory(
		valueobjects.NewMemoryID(), "user-1", content, tags,
		nil, nil, "", pos, 0, 0, created, created,
	)
	require.NoError(t, err)
	return memory
}

func neutralView(cfg *config.DomainConfig) ViewState {
	view := NewViewState(cfg)
	view.OffsetX = 400
	view.OffsetY = 300
	return view
}

func TestOriginal_PainterOrder(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewOriginal(cfg)

	near := fixedMemory(t, "Near", 0, 0, -100)
	mid := fixedMemory(t, "Mid", 0, 0, 0)
	far := fixedMemory(t, "Far", 0, 0, 100)

	result := engine.Compute(Snapshot{Memories: []*entities.Memory{near, far, mid}}, neutralView(cfg))

	require.NotNil(t, result.Original)
	require.Len(t, result.Original.Nodes, 3)
	// Back-to-front: largest depth first.
	assert.Equal(t, "Far", result.Original.Nodes[0].Title)
	assert.Equal(t, "Mid", result.Original.Nodes[1].Title)
	assert.Equal(t, "Near", result.Original.Nodes[2].Title)
}

func TestOriginal_SkipsBehindCamera(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewOriginal(cfg)

	visible := fixedMemory(t, "Visible", 0, 0, 0)
	behind := fixedMemory(t, "Behind", 0, 0, -cfg.FocalDistance)
	edge := entities.NewEdge(visible.ID(), behind.ID(), []string{"go"})

	result := engine.Compute(Snapshot{
		Memories: []*entities.Memory{visible, behind},
		Edges:    []*entities.Edge{edge},
	}, neutralView(cfg))

	require.Len(t, result.Original.Nodes, 1)
	assert.Equal(t, "Visible", result.Original.Nodes[0].Title)
	// Edges with an invisible endpoint are skipped for the frame.
	assert.Empty(t, result.Original.Edges)
}

func TestOriginal_EdgeSegments(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewOriginal(cfg)

	a := fixedMemory(t, "A", -50, 0, 0)
	b := fixedMemory(t, "B", 50, 0, 0)
	edge := entities.NewEdge(a.ID(), b.ID(), []string{"go", "db"})

	result := engine.Compute(Snapshot{
		Memories: []*entities.Memory{a, b},
		Edges:    []*entities.Edge{edge},
	}, neutralView(cfg))

	require.Len(t, result.Original.Edges, 1)
	segment := result.Original.Edges[0]
	assert.Equal(t, 2, segment.SharedCount)
	assert.Equal(t, edge.GlitchOffset, segment.GlitchOffset)
	assert.Less(t, segment.From.X, segment.To.X)
}

func TestOriginal_DeterministicAtFixedTime(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewOriginal(cfg)
	view := neutralView(cfg)
	view.Time = 4.2
	view.RotationX = 0.3
	view.RotationY = -0.7
	snap := Snapshot{Memories: []*entities.Memory{fixedMemory(t, "A", 10, 20, 30)}}

	first := engine.Compute(snap, view)
	second := engine.Compute(snap, view)

	require.Len(t, first.Original.Nodes, 1)
	assert.Equal(t, first.Original.Nodes[0].Screen, second.Original.Nodes[0].Screen)
	assert.Equal(t, first.Original.Nodes[0].Radius, second.Original.Nodes[0].Radius)
}

func TestOriginal_HitTestFrontmost(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewOriginal(cfg)

	front := fixedMemory(t, "Front", 0, 0, -50)
	back := fixedMemory(t, "Back", 0, 0, 50)
	view := neutralView(cfg)

	result := engine.Compute(Snapshot{Memories: []*entities.Memory{back, front}}, view)

	// Both project near the viewport center; the nearer one wins the hit.
	hit := engine.HitTest(result, view.OffsetX, view.OffsetY)
	require.NotNil(t, hit)
	assert.Equal(t, HitMemory, hit.Kind)
	assert.True(t, hit.MemoryID.Equals(front.ID()))

	assert.Nil(t, engine.HitTest(result, -10000, -10000))
	assert.Nil(t, engine.HitTest(nil, 0, 0))
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindClustered, ParseKind("clustered"))
	assert.Equal(t, KindOriginal, ParseKind("bogus"))
	assert.Equal(t, KindOriginal, ParseKind(""))
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, WindowWeek, ParseWindow("week"))
	assert.Equal(t, WindowAll, ParseWindow("decade"))
	assert.Equal(t, time.Duration(0), WindowAll.Duration())
	assert.Equal(t, 7*24*time.Hour, WindowWeek.Duration())
}

func TestEngines_Registry(t *testing.T) {
	engines := Engines(nil)

	require.Len(t, engines, 4)
	for kind, engine := range engines {
		assert.Equal(t, kind, engine.Kind())
		min, max := engine.ZoomBounds()
		assert.Less(t, min, max)
	}
}
