package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryweb/application/queries"
	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	memstore "memoryweb/infrastructure/persistence/memory"
	"memoryweb/pkg/observability"
	"memoryweb/visualization/layout"
)

type queryFixture struct {
	memories    *memstore.MemoryRepository
	edges       *memstore.EdgeRepository
	collections *memstore.CollectionRepository
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

func newQueryFixture() *queryFixture {
	return &queryFixture{
		memories:    memstore.NewMemoryRepository(),
		edges:       memstore.NewEdgeRepository(),
		collections: memstore.NewCollectionRepository(),
		cfg:         config.DefaultDomainConfig(),
		logger:      zap.NewNop(),
	}
}

func (f *queryFixture) seedMemory(t *testing.T, title string, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "body", valueobjects.FormatPlainText)
	require.NoError(t, err)
	memory, err := entities.NewMemory("user-1", content, tags)
	require.NoError(t, err)
	memory.MarkEventsAsCommitted()
	require.NoError(t, f.memories.Save(context.Background(), memory))
	return memory
}

func (f *queryFixture) seedEdge(t *testing.T, a, b *entities.Memory) *entities.Edge {
	t.Helper()
	shared := a.Tags().Intersect(b.Tags())
	require.NotEmpty(t, shared)
	edge := entities.NewEdge(a.ID(), b.ID(), shared)
	require.NoError(t, f.edges.SaveBatch(context.Background(), "user-1", []*entities.Edge{edge}))
	return edge
}

func newComputeLayoutHandler(f *queryFixture) *ComputeLayoutHandler {
	return NewComputeLayoutHandler(
		f.memories, f.edges, f.cfg,
		observability.NewTracer("test"), f.logger,
	)
}

func TestComputeLayoutHandler_Original(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	a := f.seedMemory(t, "A", "go")
	b := f.seedMemory(t, "B", "go")
	f.seedEdge(t, a, b)
	handler := newComputeLayoutHandler(f)

	raw, err := handler.Handle(ctx, queries.ComputeLayoutQuery{
		UserID:  "user-1",
		Layout:  "original",
		Zoom:    1,
		OffsetX: 400,
		OffsetY: 300,
	})

	require.NoError(t, err)
	result, ok := raw.(*ComputeLayoutResult)
	require.True(t, ok)
	assert.Equal(t, "original", result.Layout)
	require.NotNil(t, result.Result.Original)
	assert.Len(t, result.Result.Original.Nodes, 2)
	assert.Len(t, result.Result.Original.Edges, 1)
	assert.Empty(t, result.Clusters)
	assert.Equal(t, 2, result.Stats.MemoryCount)
	assert.Equal(t, 1, result.Stats.EdgeCount)
}

func TestComputeLayoutHandler_ClusteredRunsPass(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	a := f.seedMemory(t, "A", "go", "db", "infra")
	b := f.seedMemory(t, "B", "go", "db", "infra")
	f.seedMemory(t, "C", "solo")
	f.seedEdge(t, a, b)
	handler := newComputeLayoutHandler(f)

	raw, err := handler.Handle(ctx, queries.ComputeLayoutQuery{
		UserID: "user-1",
		Layout: "clustered",
		Zoom:   1,
	})

	require.NoError(t, err)
	result := raw.(*ComputeLayoutResult)
	require.NotNil(t, result.Result.Clustered)
	// Default threshold 3 merges the strong pair, C stays a singleton.
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, 2, result.Clusters[0].MemberCount)
	assert.Equal(t, 1, result.Clusters[1].MemberCount)
}

func TestComputeLayoutHandler_ThresholdClamped(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	a := f.seedMemory(t, "A", "go")
	b := f.seedMemory(t, "B", "go")
	f.seedEdge(t, a, b)
	handler := newComputeLayoutHandler(f)

	// Threshold 99 clamps down to the maximum; a strength-1 edge never merges.
	raw, err := handler.Handle(ctx, queries.ComputeLayoutQuery{
		UserID:    "user-1",
		Layout:    "clustered",
		Threshold: 99,
		Zoom:      1,
	})
	require.NoError(t, err)
	assert.Len(t, raw.(*ComputeLayoutResult).Clusters, 2)
}

func TestComputeLayoutHandler_ZoomClampedPerLayout(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	f.seedMemory(t, "A", "go")
	handler := newComputeLayoutHandler(f)

	raw, err := handler.Handle(ctx, queries.ComputeLayoutQuery{
		UserID: "user-1",
		Layout: "timeline",
		Zoom:   0.001,
	})

	require.NoError(t, err)
	result := raw.(*ComputeLayoutResult)
	require.NotNil(t, result.Result.Timeline)
	require.Len(t, result.Result.Timeline.Nodes, 1)
	// At the flat-layout minimum zoom the node radius reflects 0.5, not 0.001.
	assert.Greater(t, result.Result.Timeline.Nodes[0].Radius, 1.0)
}

func TestComputeLayoutHandler_UnknownLayoutFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newQueryFixture()
	handler := newComputeLayoutHandler(f)

	raw, err := handler.Handle(ctx, queries.ComputeLayoutQuery{
		UserID: "user-1",
		Layout: "hexagonal",
		Zoom:   1,
	})

	require.NoError(t, err)
	assert.Equal(t, string(layout.KindOriginal), raw.(*ComputeLayoutResult).Layout)
}
