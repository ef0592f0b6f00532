package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"memoryweb/application/commands"
	"memoryweb/application/commands/bus"
	"memoryweb/application/ports"
	"memoryweb/application/services"
	"memoryweb/domain/config"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/pkg/errors"
)

// UpdateMemoryHandler applies partial updates. Edges are re-derived only when
// the tag set actually changed.
type UpdateMemoryHandler struct {
	memories    ports.MemoryRepository
	connections *services.ConnectionService
	eventBus    ports.EventBus
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewUpdateMemoryHandler creates the handler
func NewUpdateMemoryHandler(
	memories ports.MemoryRepository,
	connections *services.ConnectionService,
	eventBus ports.EventBus,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *UpdateMemoryHandler {
	return &UpdateMemoryHandler{
		memories:    memories,
		connections: connections,
		eventBus:    eventBus,
		cfg:         cfg,
		logger:      logger,
	}
}

// Handle executes the update command
func (h *UpdateMemoryHandler) Handle(ctx context.Context, cmd bus.Command) error {
	update, ok := cmd.(commands.UpdateMemoryCommand)
	if !ok {
		return errors.NewInternalError("unexpected command type")
	}
	if !update.HasChanges() {
		return nil
	}

	id, err := valueobjects.NewMemoryIDFromString(update.MemoryID)
	if err != nil {
		return errors.NewValidationError("invalid memory id")
	}

	memory, err := h.memories.GetByID(ctx, update.UserID, id)
	if err != nil {
		return errors.NewDatabaseError("load memory", err)
	}
	if memory == nil {
		return errors.NewNotFoundError(fmt.Sprintf("memory %s", update.MemoryID))
	}

	if update.Title != nil || update.Content != nil || update.Format != nil {
		current := memory.Content()
		title, body, format := current.Title(), current.Body(), current.Format()
		if update.Title != nil {
			title = *update.Title
		}
		if update.Content != nil {
			body = *update.Content
		}
		if update.Format != nil {
			format = valueobjects.ContentFormat(*update.Format)
		}
		content, err := valueobjects.NewMemoryContentWithConfig(title, body, format, h.cfg)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := memory.UpdateContent(content); err != nil {
			return err
		}
	}

	tagsChanged := false
	if update.Tags != nil {
		tagsChanged, err = memory.ReplaceTagsWithConfig(*update.Tags, h.cfg)
		if err != nil {
			return err
		}
	}

	if update.CollectionID != nil {
		if *update.CollectionID == "" {
			memory.RemoveFromCollection()
		} else {
			memory.AssignToCollection(*update.CollectionID)
		}
	}

	if err := h.memories.Save(ctx, memory); err != nil {
		return errors.NewDatabaseError("save memory", err)
	}

	if tagsChanged {
		if _, err := h.connections.ReconnectAfterTagChange(ctx, update.UserID, memory); err != nil {
			h.logger.Error("edge re-derivation failed after tag change",
				zap.String("memory_id", update.MemoryID),
				zap.Error(err))
		}
	}

	if err := h.eventBus.Publish(ctx, memory.GetUncommittedEvents()...); err != nil {
		h.logger.Warn("failed to publish update events", zap.Error(err))
	}
	memory.MarkEventsAsCommitted()

	h.logger.Info("memory updated",
		zap.String("memory_id", update.MemoryID),
		zap.Bool("tags_changed", tagsChanged))
	return nil
}
