package handlers

import (
	"context"

	"go.uber.org/zap"

	"memoryweb/application/commands"
	"memoryweb/application/commands/bus"
	"memoryweb/application/ports"
	"memoryweb/application/services"
	"memoryweb/domain/config"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/pkg/errors"
)

// CreateMemoryHandler creates a memory and wires it into the connection graph.
// Creation needs to hand the new entity back to the caller, so the typed
// HandleCreate is the real entry point and the bus adapter discards the result.
type CreateMemoryHandler struct {
	memories    ports.MemoryRepository
	connections *services.ConnectionService
	eventBus    ports.EventBus
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewCreateMemoryHandler creates the handler
func NewCreateMemoryHandler(
	memories ports.MemoryRepository,
	connections *services.ConnectionService,
	eventBus ports.EventBus,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CreateMemoryHandler {
	return &CreateMemoryHandler{
		memories:    memories,
		connections: connections,
		eventBus:    eventBus,
		cfg:         cfg,
		logger:      logger,
	}
}

// HandleCreate executes the command and returns the created memory
func (h *CreateMemoryHandler) HandleCreate(ctx context.Context, cmd commands.CreateMemoryCommand) (*entities.Memory, error) {
	content, err := valueobjects.NewMemoryContentWithConfig(
		cmd.Title, cmd.Content, valueobjects.ContentFormat(formatOrDefault(cmd.Format)), h.cfg)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	memory, err := entities.NewMemoryWithConfig(cmd.UserID, content, cmd.Tags, h.cfg)
	if err != nil {
		return nil, err
	}

	for _, img := range cmd.Images {
		if err := memory.AttachImageWithConfig(img, h.cfg); err != nil {
			return nil, err
		}
	}
	for _, link := range cmd.Links {
		if err := memory.AddLinkWithConfig(link, h.cfg); err != nil {
			return nil, err
		}
	}
	if cmd.CollectionID != "" {
		memory.AssignToCollection(cmd.CollectionID)
	}

	if err := h.memories.Save(ctx, memory); err != nil {
		return nil, errors.NewDatabaseError("save memory", err)
	}

	if _, err := h.connections.ConnectMemory(ctx, cmd.UserID, memory); err != nil {
		// The memory is saved; a failed derivation leaves it isolated
		// until the next tag change or rebuild.
		h.logger.Error("edge derivation failed after create",
			zap.String("memory_id", memory.ID().String()),
			zap.Error(err))
	}

	if err := h.eventBus.Publish(ctx, memory.GetUncommittedEvents()...); err != nil {
		h.logger.Warn("failed to publish creation events", zap.Error(err))
	}
	memory.MarkEventsAsCommitted()

	h.logger.Info("memory created",
		zap.String("memory_id", memory.ID().String()),
		zap.String("user_id", cmd.UserID),
		zap.Int("tag_count", memory.Tags().Len()))
	return memory, nil
}

// Handle adapts HandleCreate to the command bus interface
func (h *CreateMemoryHandler) Handle(ctx context.Context, cmd bus.Command) error {
	create, ok := cmd.(commands.CreateMemoryCommand)
	if !ok {
		return errors.NewInternalError("unexpected command type")
	}
	_, err := h.HandleCreate(ctx, create)
	return err
}

func formatOrDefault(format string) string {
	if format == "" {
		return string(valueobjects.FormatPlainText)
	}
	return format
}
