package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryweb/application/commands"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/pkg/errors"
)

func strPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string { return &tags }

func TestUpdateMemoryHandler_ContentOnly(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	other := f.seedMemory(t, "Other", "go")
	target := f.seedMemory(t, "Target", "go")
	_, err := f.connections.ConnectMemory(ctx, "user-1", target)
	require.NoError(t, err)
	edgesBefore, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, edgesBefore, 1)
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err = handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:   "user-1",
		MemoryID: target.ID().String(),
		Title:    strPtr("Renamed"),
		Content:  strPtr("new body"),
	})

	require.NoError(t, err)
	stored, err := f.memories.GetByID(ctx, "user-1", target.ID())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Content().Title())
	assert.Equal(t, "new body", stored.Content().Body())

	// A pure content edit never touches the edge set.
	edgesAfter, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, edgesAfter, 1)
	assert.Equal(t, edgesBefore[0].ID, edgesAfter[0].ID)
	assert.True(t, edgesAfter[0].Touches(other.ID()))
}

func TestUpdateMemoryHandler_TagChangeRederives(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	f.seedMemory(t, "GoNote", "go")
	f.seedMemory(t, "FoodNote", "food")
	target := f.seedMemory(t, "Target", "go")
	_, err := f.connections.ConnectMemory(ctx, "user-1", target)
	require.NoError(t, err)
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err = handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:   "user-1",
		MemoryID: target.ID().String(),
		Tags:     tagsPtr("food"),
	})

	require.NoError(t, err)
	edges, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, edges, 1)
	assert.Equal(t, []string{"food"}, edges[0].SharedTags)
	assert.Contains(t, publishedTypes(f.eventBus), "memory.tags_replaced")
}

func TestUpdateMemoryHandler_SameTagsSkipRederivation(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	f.seedMemory(t, "GoNote", "go")
	target := f.seedMemory(t, "Target", "go", "db")
	_, err := f.connections.ConnectMemory(ctx, "user-1", target)
	require.NoError(t, err)
	edgesBefore, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, edgesBefore, 1)
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err = handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:   "user-1",
		MemoryID: target.ID().String(),
		Tags:     tagsPtr("go", "db"),
	})

	require.NoError(t, err)
	edgesAfter, _ := f.edges.GetByUserID(ctx, "user-1")
	require.Len(t, edgesAfter, 1)
	// Identical tag set: the stored edge keeps its animation seed.
	assert.Equal(t, edgesBefore[0].ID, edgesAfter[0].ID)
	assert.NotContains(t, publishedTypes(f.eventBus), "memory.tags_replaced")
}

func TestUpdateMemoryHandler_CollectionMoves(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	target := f.seedMemory(t, "Target")
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err := handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:       "user-1",
		MemoryID:     target.ID().String(),
		CollectionID: strPtr("col-1"),
	})
	require.NoError(t, err)
	stored, _ := f.memories.GetByID(ctx, "user-1", target.ID())
	assert.Equal(t, "col-1", stored.CollectionID())

	err = handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:       "user-1",
		MemoryID:     target.ID().String(),
		CollectionID: strPtr(""),
	})
	require.NoError(t, err)
	stored, _ = f.memories.GetByID(ctx, "user-1", target.ID())
	assert.Empty(t, stored.CollectionID())
}

func TestUpdateMemoryHandler_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err := handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:   "user-1",
		MemoryID: valueobjects.NewMemoryID().String(),
		Title:    strPtr("Ghost"),
	})

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateMemoryHandler_NoChangesIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	handler := NewUpdateMemoryHandler(f.memories, f.connections, f.eventBus, f.cfg, f.logger)

	err := handler.Handle(ctx, commands.UpdateMemoryCommand{
		UserID:   "user-1",
		MemoryID: valueobjects.NewMemoryID().String(),
	})

	assert.NoError(t, err)
}
