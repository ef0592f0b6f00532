package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memoryweb/application/queries"
	querybus "memoryweb/application/queries/bus"
	"memoryweb/application/services"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/common"
)

// GraphHandler exposes the assembled graph payload and maintenance operations
type GraphHandler struct {
	queryBus    *querybus.QueryBus
	connections *services.ConnectionService
	logger      *zap.Logger
}

// NewGraphHandler creates a graph handler
func NewGraphHandler(
	queryBus *querybus.QueryBus,
	connections *services.ConnectionService,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		queryBus:    queryBus,
		connections: connections,
		logger:      logger,
	}
}

// GetGraph handles GET /api/v1/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{UserID: user.UserID})
	if err != nil {
		h.logger.Error("get graph failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RebuildConnections handles POST /api/v1/graph/rebuild. It recomputes every
// edge from current tags, discarding whatever was stored.
func (h *GraphHandler) RebuildConnections(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	edgeCount, err := h.connections.RebuildAll(r.Context(), user.UserID)
	if err != nil {
		h.logger.Error("rebuild connections failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{"edgeCount": edgeCount})
}
