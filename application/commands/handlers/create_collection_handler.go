package handlers

import (
	"context"

	"go.uber.org/zap"

	"memoryweb/application/commands"
	"memoryweb/application/commands/bus"
	"memoryweb/application/ports"
	"memoryweb/domain/core/entities"
	"memoryweb/pkg/errors"
)

// CreateCollectionHandler creates an organizational collection
type CreateCollectionHandler struct {
	collections ports.CollectionRepository
	eventBus    ports.EventBus
	logger      *zap.Logger
}

// NewCreateCollectionHandler creates the handler
func NewCreateCollectionHandler(
	collections ports.CollectionRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *CreateCollectionHandler {
	return &CreateCollectionHandler{
		collections: collections,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// HandleCreate executes the command and returns the created collection
func (h *CreateCollectionHandler) HandleCreate(ctx context.Context, cmd commands.CreateCollectionCommand) (*entities.Collection, error) {
	collection, err := entities.NewCollection(cmd.UserID, cmd.Name, cmd.Description)
	if err != nil {
		return nil, err
	}

	if err := h.collections.Save(ctx, collection); err != nil {
		return nil, errors.NewDatabaseError("save collection", err)
	}

	if err := h.eventBus.Publish(ctx, collection.GetUncommittedEvents()...); err != nil {
		h.logger.Warn("failed to publish collection events", zap.Error(err))
	}
	collection.MarkEventsAsCommitted()

	h.logger.Info("collection created",
		zap.String("collection_id", collection.ID()),
		zap.String("user_id", cmd.UserID))
	return collection, nil
}

// Handle adapts HandleCreate to the command bus interface
func (h *CreateCollectionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	create, ok := cmd.(commands.CreateCollectionCommand)
	if !ok {
		return errors.NewInternalError("unexpected command type")
	}
	_, err := h.HandleCreate(ctx, create)
	return err
}
