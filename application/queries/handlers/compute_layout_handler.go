package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"memoryweb/application/ports"
	"memoryweb/application/queries"
	"memoryweb/application/queries/bus"
	"memoryweb/domain/config"
	"memoryweb/pkg/errors"
	"memoryweb/pkg/observability"
	"memoryweb/visualization/cluster"
	"memoryweb/visualization/layout"
)

// ComputeLayoutResult pairs the engine output with the clusters it was
// computed against (empty for non-clustered layouts).
type ComputeLayoutResult struct {
	Layout   string                `json:"layout"`
	Result   *layout.Result        `json:"result"`
	Clusters []queries.ClusterView `json:"clusters,omitempty"`
	Stats    queries.GraphStats    `json:"stats"`
}

// ComputeLayoutHandler runs a layout engine over a user's graph server-side
type ComputeLayoutHandler struct {
	memories    ports.MemoryRepository
	edges       ports.EdgeRepository
	cfg         *config.DomainConfig
	engines     map[layout.Kind]layout.Engine
	clusterPass *cluster.Pass
	tracer      *observability.Tracer
	logger      *zap.Logger
}

// NewComputeLayoutHandler creates the handler
func NewComputeLayoutHandler(
	memories ports.MemoryRepository,
	edges ports.EdgeRepository,
	cfg *config.DomainConfig,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ComputeLayoutHandler {
	return &ComputeLayoutHandler{
		memories:    memories,
		edges:       edges,
		cfg:         cfg,
		engines:     layout.Engines(cfg),
		clusterPass: cluster.NewPass(logger),
		tracer:      tracer,
		logger:      logger,
	}
}

// Handle executes the query
func (h *ComputeLayoutHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ComputeLayoutQuery)
	if !ok {
		return nil, errors.NewInternalError("unexpected query type")
	}

	kind := layout.ParseKind(q.Layout)
	engine, ok := h.engines[kind]
	if !ok {
		return nil, errors.NewValidationError("unknown layout: " + q.Layout)
	}

	memories, err := h.memories.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load memories", err)
	}
	edges, err := h.edges.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("load edges", err)
	}

	view := layout.NewViewState(h.cfg)
	view.RotationX = q.RotationX
	view.RotationY = q.RotationY
	view.PanX = q.PanX
	view.PanY = q.PanY
	view.OffsetX = q.OffsetX
	view.OffsetY = q.OffsetY
	view.Time = q.Time
	view.Now = time.Now()
	view.Window = layout.ParseWindow(q.Window)
	if q.Zoom > 0 {
		minZoom, maxZoom := engine.ZoomBounds()
		view.Zoom = clamp(q.Zoom, minZoom, maxZoom)
	}
	for _, id := range q.Expanded {
		view.Expanded[id] = true
	}

	snap := layout.Snapshot{Memories: memories, Edges: edges}

	var clusterViews []queries.ClusterView
	if kind == layout.KindClustered {
		threshold := q.Threshold
		if threshold == 0 {
			threshold = h.cfg.DefaultClusterThreshold
		}
		threshold = h.cfg.ClampClusterThreshold(threshold)
		var clusters []*cluster.Cluster
		_ = h.tracer.TraceFunction(ctx, "cluster_pass", func(ctx context.Context) error {
			clusters = h.clusterPass.Compute(memories, edges, threshold)
			return nil
		})
		snap.Clusters = clusters

		clusterViews = make([]queries.ClusterView, 0, len(clusters))
		for _, c := range clusters {
			members := make([]string, 0, len(c.Members))
			for _, m := range c.Members {
				members = append(members, m.ID().String())
			}
			clusterViews = append(clusterViews, queries.ClusterView{
				ID:          c.ID,
				MemberIDs:   members,
				MergedTags:  c.MergedTags,
				Color:       c.Color,
				Strength:    c.Strength,
				MemberCount: c.MemberCount(),
			})
		}
	}

	result := engine.Compute(snap, view)

	h.logger.Debug("computed layout",
		zap.String("user_id", q.UserID),
		zap.String("layout", string(kind)),
		zap.Int("memory_count", len(memories)),
		zap.Int("cluster_count", len(clusterViews)))

	return &ComputeLayoutResult{
		Layout:   string(kind),
		Result:   result,
		Clusters: clusterViews,
		Stats: queries.GraphStats{
			MemoryCount: len(memories),
			EdgeCount:   len(edges),
		},
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
