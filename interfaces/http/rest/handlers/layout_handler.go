package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"memoryweb/application/queries"
	querybus "memoryweb/application/queries/bus"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/common"
	"memoryweb/pkg/errors"
)

// LayoutHandler exposes server-side layout computation. Clients that keep
// their own interaction loop can ignore it and consume the raw graph instead.
type LayoutHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewLayoutHandler creates a layout handler
func NewLayoutHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{queryBus: queryBus, logger: logger}
}

type computeLayoutRequest struct {
	Layout    string  `json:"layout"`
	Threshold int     `json:"threshold"`
	Window    string  `json:"window"`
	RotationX float64 `json:"rotationX"`
	RotationY float64 `json:"rotationY"`
	Zoom      float64 `json:"zoom"`
	PanX      float64 `json:"panX"`
	PanY      float64 `json:"panY"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	Time      float64 `json:"time"`
	Expanded  []int   `json:"expanded"`
}

// ComputeLayout handles POST /api/v1/layouts/compute
func (h *LayoutHandler) ComputeLayout(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req computeLayoutRequest
	if err := common.ParseJSONBody(w, r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	query := queries.ComputeLayoutQuery{
		UserID:    user.UserID,
		Layout:    req.Layout,
		Threshold: req.Threshold,
		Window:    req.Window,
		RotationX: req.RotationX,
		RotationY: req.RotationY,
		Zoom:      req.Zoom,
		PanX:      req.PanX,
		PanY:      req.PanY,
		OffsetX:   req.OffsetX,
		OffsetY:   req.OffsetY,
		Time:      req.Time,
		Expanded:  req.Expanded,
	}
	if err := query.Validate(); err != nil {
		common.RespondAppError(w, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("compute layout failed",
			zap.String("layout", req.Layout),
			zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetClusters handles GET /api/v1/layouts/clusters?threshold=N, returning the
// community clusters without running a full layout.
func (h *LayoutHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "threshold must be an integer")
			return
		}
		threshold = parsed
	}

	query := queries.ComputeLayoutQuery{
		UserID:    user.UserID,
		Layout:    "clustered",
		Threshold: threshold,
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
