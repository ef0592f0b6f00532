package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
	memstore "memoryweb/infrastructure/persistence/memory"
	"memoryweb/pkg/observability"
)

type serviceFixture struct {
	service  *ConnectionService
	memories *memstore.MemoryRepository
	edges    *memstore.EdgeRepository
	eventBus *memstore.EventBus
}

func newServiceFixture() *serviceFixture {
	logger := zap.NewNop()
	f := &serviceFixture{
		memories: memstore.NewMemoryRepository(),
		edges:    memstore.NewEdgeRepository(),
		eventBus: memstore.NewEventBus(),
	}
	f.service = NewConnectionService(
		f.memories,
		f.edges,
		f.eventBus,
		nil,
		observability.NewMetrics(nil, "", logger),
		observability.NewTracer("test"),
		logger,
	)
	return f
}

func (f *serviceFixture) addMemory(t *testing.T, title string, tags ...string) *entities.Memory {
	t.Helper()
	content, err := valueobjects.NewMemoryContent(title, "", valueobjects.FormatPlainText)
	require.NoError(t, err)
	memory, err := entities.NewMemory("user-1", content, tags)
	require.NoError(t, err)
	require.NoError(t, f.memories.Save(context.Background(), memory))
	return memory
}

func TestConnectionService_ConnectMemory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.addMemory(t, "A", "go", "db")
	f.addMemory(t, "B", "rust")
	target := f.addMemory(t, "C", "db", "rust")

	derived, err := f.service.ConnectMemory(ctx, "user-1", target)

	require.NoError(t, err)
	assert.Len(t, derived, 2)

	stored, err := f.edges.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	published := f.eventBus.Published()
	require.Len(t, published, 1)
	derivedEvent, ok := published[0].(events.EdgesDerived)
	require.True(t, ok)
	assert.Equal(t, 2, derivedEvent.EdgeCount)
	assert.True(t, derivedEvent.MemoryID.Equals(target.ID()))
}

func TestConnectionService_ConnectMemory_NoMatches(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	target := f.addMemory(t, "Loner", "unique")

	derived, err := f.service.ConnectMemory(ctx, "user-1", target)

	require.NoError(t, err)
	assert.Empty(t, derived)

	// The zero-count event still goes out so consumers can settle.
	published := f.eventBus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "memory.edges_derived", published[0].GetEventType())
}

func TestConnectionService_ReconnectAfterTagChange(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	a := f.addMemory(t, "A", "go")
	b := f.addMemory(t, "B", "go")
	f.addMemory(t, "C", "food")

	_, err := f.service.ConnectMemory(ctx, "user-1", b)
	require.NoError(t, err)
	stored, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, stored, 1)

	// Retag A away from B and toward C.
	changed, err := a.ReplaceTags([]string{"food"})
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, f.memories.Save(ctx, a))

	derived, err := f.service.ReconnectAfterTagChange(ctx, "user-1", a)

	require.NoError(t, err)
	require.Len(t, derived, 1)
	assert.Equal(t, []string{"food"}, derived[0].SharedTags)

	stored, _ = f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Touches(b.ID()))
}

func TestConnectionService_RemoveConnections(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.addMemory(t, "A", "go")
	b := f.addMemory(t, "B", "go", "db")
	f.addMemory(t, "C", "db")
	_, err := f.service.ConnectMemory(ctx, "user-1", b)
	require.NoError(t, err)
	stored, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, stored, 2)

	err = f.service.RemoveConnections(ctx, "user-1", b.ID())

	require.NoError(t, err)
	stored, _ = f.edges.GetByUserID(ctx, "user-1")
	assert.Empty(t, stored)
}

func TestConnectionService_RebuildAll(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.addMemory(t, "A", "go", "db")
	f.addMemory(t, "B", "go")
	f.addMemory(t, "C", "db")
	f.addMemory(t, "D", "food")

	count, err := f.service.RebuildAll(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, _ := f.edges.GetByUserID(ctx, "user-1")
	assert.Len(t, stored, 2)
}

func TestGraphCacheKey(t *testing.T) {
	assert.Equal(t, "graph:user-1", GraphCacheKey("user-1"))
}
