package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/domain/core/entities"
	"memoryweb/domain/core/services"
	"memoryweb/domain/core/valueobjects"
	"memoryweb/domain/events"
	"memoryweb/pkg/errors"
	"memoryweb/pkg/observability"
)

// ConnectionService keeps a user's edge set consistent with their memories'
// tags. All edge mutation flows through here so the derivation rules live in
// exactly one place.
type ConnectionService struct {
	memories ports.MemoryRepository
	edges    ports.EdgeRepository
	eventBus ports.EventBus
	cache    ports.Cache
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewConnectionService creates a connection service
func NewConnectionService(
	memories ports.MemoryRepository,
	edges ports.EdgeRepository,
	eventBus ports.EventBus,
	cache ports.Cache,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		memories: memories,
		edges:    edges,
		eventBus: eventBus,
		cache:    cache,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// ConnectMemory derives edges between the given memory and every other memory
// the user owns, persists them, and announces the result. Used after creation.
func (s *ConnectionService) ConnectMemory(ctx context.Context, userID string, memory *entities.Memory) ([]*entities.Edge, error) {
	return s.rederive(ctx, userID, memory, "connect")
}

// ReconnectAfterTagChange drops the memory's existing edges and derives a
// fresh set from its current tags. Edges to unrelated pairs are untouched.
func (s *ConnectionService) ReconnectAfterTagChange(ctx context.Context, userID string, memory *entities.Memory) ([]*entities.Edge, error) {
	if err := s.edges.DeleteByMemoryID(ctx, userID, memory.ID()); err != nil {
		return nil, errors.NewDatabaseError("delete stale edges", err)
	}
	return s.rederive(ctx, userID, memory, "reconnect")
}

// RemoveConnections deletes every edge touching the memory. Used on deletion.
func (s *ConnectionService) RemoveConnections(ctx context.Context, userID string, memoryID valueobjects.MemoryID) error {
	if err := s.edges.DeleteByMemoryID(ctx, userID, memoryID); err != nil {
		return errors.NewDatabaseError("delete edges", err)
	}
	s.invalidateGraphCache(ctx, userID)
	return nil
}

// RebuildAll recomputes the full edge set for a user from scratch, replacing
// whatever is stored. Intended for repair and bulk import paths.
func (s *ConnectionService) RebuildAll(ctx context.Context, userID string) (int, error) {
	all, err := s.memories.GetByUserID(ctx, userID)
	if err != nil {
		return 0, errors.NewDatabaseError("load memories", err)
	}

	derived := services.DeriveAllEdges(all)

	for _, m := range all {
		if err := s.edges.DeleteByMemoryID(ctx, userID, m.ID()); err != nil {
			return 0, errors.NewDatabaseError("clear edges", err)
		}
	}
	if err := s.edges.SaveBatch(ctx, userID, derived); err != nil {
		return 0, errors.NewDatabaseError("save edges", err)
	}

	s.invalidateGraphCache(ctx, userID)
	s.logger.Info("rebuilt connection graph",
		zap.String("user_id", userID),
		zap.Int("memory_count", len(all)),
		zap.Int("edge_count", len(derived)))
	return len(derived), nil
}

func (s *ConnectionService) rederive(ctx context.Context, userID string, memory *entities.Memory, reason string) ([]*entities.Edge, error) {
	start := time.Now()

	all, err := s.memories.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load memories", err)
	}

	var derived []*entities.Edge
	traceErr := s.tracer.TraceFunction(ctx, "derive_edges", func(ctx context.Context) error {
		derived = services.DeriveEdgesForMemory(memory, all)
		return nil
	})
	if traceErr != nil {
		return nil, traceErr
	}

	if len(derived) > 0 {
		if err := s.edges.SaveBatch(ctx, userID, derived); err != nil {
			return nil, errors.NewDatabaseError("save edges", err)
		}
	}

	event := events.NewEdgesDerived(memory.ID(), userID, len(derived), time.Now())
	if err := s.eventBus.Publish(ctx, event); err != nil {
		// Edge persistence already succeeded; a lost event only delays
		// downstream consumers, so log and continue.
		s.logger.Warn("failed to publish edges derived event",
			zap.String("memory_id", memory.ID().String()),
			zap.Error(err))
	}

	s.invalidateGraphCache(ctx, userID)
	s.metrics.IncrementCounter(ctx, "EdgesDerived", float64(len(derived)), map[string]string{"Reason": reason})
	s.metrics.RecordDuration(ctx, "EdgeDerivationTime", time.Since(start), nil)

	s.logger.Debug("derived edges",
		zap.String("user_id", userID),
		zap.String("memory_id", memory.ID().String()),
		zap.String("reason", reason),
		zap.Int("edge_count", len(derived)))
	return derived, nil
}

func (s *ConnectionService) invalidateGraphCache(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, GraphCacheKey(userID))
}

// GraphCacheKey is the cache key for a user's assembled graph payload
func GraphCacheKey(userID string) string {
	return fmt.Sprintf("graph:%s", userID)
}
