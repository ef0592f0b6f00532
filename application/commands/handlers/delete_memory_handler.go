package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"memoryweb/application/commands"
	"memoryweb/application/commands/bus"
	"memoryweb/application/ports"
	"memoryweb/application/services"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
	"memoryweb/pkg/errors"
)

// DeleteMemoryHandler removes a memory and cascades its edges. Deleting an
// absent memory is a no-op so retries stay safe.
type DeleteMemoryHandler struct {
	memories    ports.MemoryRepository
	connections *services.ConnectionService
	eventBus    ports.EventBus
	logger      *zap.Logger
}

// NewDeleteMemoryHandler creates the handler
func NewDeleteMemoryHandler(
	memories ports.MemoryRepository,
	connections *services.ConnectionService,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *DeleteMemoryHandler {
	return &DeleteMemoryHandler{
		memories:    memories,
		connections: connections,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the delete command
func (h *DeleteMemoryHandler) Handle(ctx context.Context, cmd bus.Command) error {
	del, ok := cmd.(commands.DeleteMemoryCommand)
	if !ok {
		return errors.NewInternalError("unexpected command type")
	}

	id, err := valueobjects.NewMemoryIDFromString(del.MemoryID)
	if err != nil {
		return errors.NewValidationError("invalid memory id")
	}

	existing, err := h.memories.GetByID(ctx, del.UserID, id)
	if err != nil {
		return errors.NewDatabaseError("load memory", err)
	}
	if existing == nil {
		return nil
	}

	// Edges first: a crash between the two deletes leaves an isolated
	// memory rather than dangling edges.
	if err := h.connections.RemoveConnections(ctx, del.UserID, id); err != nil {
		return err
	}
	if err := h.memories.Delete(ctx, del.UserID, id); err != nil {
		return errors.NewDatabaseError("delete memory", err)
	}

	event := events.NewMemoryDeleted(id, del.UserID, time.Now())
	if err := h.eventBus.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish deletion event", zap.Error(err))
	}

	h.logger.Info("memory deleted",
		zap.String("memory_id", del.MemoryID),
		zap.String("user_id", del.UserID))
	return nil
}
