package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoryweb/application/commands"
)

func TestCreateCollectionHandler_HandleCreate(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	handler := NewCreateCollectionHandler(f.collections, f.eventBus, f.logger)

	collection, err := handler.HandleCreate(ctx, commands.CreateCollectionCommand{
		UserID:      "user-1",
		Name:        "Travel",
		Description: "Trips and places",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, collection.ID())
	assert.Equal(t, "Travel", collection.Name())

	stored, err := f.collections.GetByID(ctx, "user-1", collection.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Contains(t, publishedTypes(f.eventBus), "collection.created")
}

func TestCreateCollectionHandler_RequiresName(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	handler := NewCreateCollectionHandler(f.collections, f.eventBus, f.logger)

	_, err := handler.HandleCreate(ctx, commands.CreateCollectionCommand{
		UserID: "user-1",
	})

	assert.Error(t, err)
}
