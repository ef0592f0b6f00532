package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/application/queries"
	"memoryweb/application/queries/bus"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/pkg/errors"
)

// GetMemoryHandler fetches a single memory
type GetMemoryHandler struct {
	memories ports.MemoryRepository
	logger   *zap.Logger
}

// NewGetMemoryHandler creates the handler
func NewGetMemoryHandler(memories ports.MemoryRepository, logger *zap.Logger) *GetMemoryHandler {
	return &GetMemoryHandler{memories: memories, logger: logger}
}

// Handle executes the query
func (h *GetMemoryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetMemoryQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}

	id, err := valueobjects.NewMemoryIDFromString(q.MemoryID)
	if err != nil {
		return nil, errors.NewValidationError("invalid memory id")
	}

	memory, err := h.memories.GetByID(ctx, q.UserID, id)
	if err != nil {
		return nil, errors.NewDatabaseError("load memory", err)
	}
	if memory == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("memory %s", q.MemoryID))
	}

	view := ToGraphMemory(memory)
	return &view, nil
}

// ListCollectionsHandler fetches a user's collections
type ListCollectionsHandler struct {
	collections ports.CollectionRepository
	logger      *zap.Logger
}

// NewListCollectionsHandler creates the handler
func NewListCollectionsHandler(collections ports.CollectionRepository, logger *zap.Logger) *ListCollectionsHandler {
	return &ListCollectionsHandler{collections: collections, logger: logger}
}

// Handle executes the query
func (h *ListCollectionsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListCollectionsQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}

	collections, err := h.collections.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load collections", err)
	}

	views := make([]queries.CollectionView, 0, len(collections))
	for _, c := range collections {
		views = append(views, queries.CollectionView{
			ID:          c.ID(),
			Name:        c.Name(),
			Description: c.Description(),
			CreatedAt:   c.CreatedAt(),
			UpdatedAt:   c.UpdatedAt(),
		})
	}
	return views, nil
}
