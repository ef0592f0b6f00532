package handlers

import (
	"context"

	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/application/queries"
	"memoryweb/application/queries/bus"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/services"
	"memoryweb/pkg/errors"
)

// GetGraphDataHandler assembles the full graph payload for a user
type GetGraphDataHandler struct {
	memories ports.MemoryRepository
	edges    ports.EdgeRepository
	logger   *zap.Logger
}

// NewGetGraphDataHandler creates the handler
func NewGetGraphDataHandler(
	memories ports.MemoryRepository,
	edges ports.EdgeRepository,
	logger *zap.Logger,
) *GetGraphDataHandler {
	return &GetGraphDataHandler{
		memories: memories,
		edges:    edges,
		logger:   logger,
	}
}

// Handle executes the query
func (h *GetGraphDataHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetGraphDataQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}

	memories, err := h.memories.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load memories", err)
	}
	edges, err := h.edges.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load edges", err)
	}

	result := &queries.GetGraphDataResult{
		Memories: make([]queries.GraphMemory, 0, len(memories)),
		Edges:    make([]queries.GraphEdge, 0, len(edges)),
	}
	for _, m := range memories {
		result.Memories = append(result.Memories, ToGraphMemory(m))
	}
	for _, e := range edges {
		result.Edges = append(result.Edges, queries.GraphEdge{
			ID:           e.ID,
			SourceID:     e.SourceID.String(),
			TargetID:     e.TargetID.String(),
			SharedTags:   e.SharedTags,
			Strength:     e.Strength(),
			GlitchOffset: e.GlitchOffset,
		})
	}
	result.Stats = queries.GraphStats{
		MemoryCount: len(memories),
		EdgeCount:   len(edges),
		TagCount:    len(services.TagMembership(memories)),
	}

	h.logger.Debug("assembled graph data",
		zap.String("user_id", q.UserID),
		zap.Int("memory_count", len(memories)),
		zap.Int("edge_count", len(edges)))
	return result, nil
}

// ToGraphMemory converts a domain memory to its wire shape
func ToGraphMemory(m *entities.Memory) queries.GraphMemory {
	content := m.Content()
	pos := m.Position()
	return queries.GraphMemory{
		ID:              m.ID().String(),
		Title:           content.Title(),
		Content:         content.Body(),
		Format:          string(content.Format()),
		Tags:            m.Tags().Tags(),
		Images:          m.Images(),
		Links:           m.Links(),
		CollectionID:    m.CollectionID(),
		X:               pos.X(),
		Y:               pos.Y(),
		Z:               pos.Z(),
		GlitchIntensity: m.GlitchIntensity(),
		PulsePhase:      m.PulsePhase(),
		CreatedAt:       m.CreatedAt(),
		UpdatedAt:       m.UpdatedAt(),
	}
}
