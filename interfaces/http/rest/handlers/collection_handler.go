package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memoryweb/application/commands"
	commandhandlers "memoryweb/application/commands/handlers"
	"memoryweb/application/queries"
	querybus "memoryweb/application/queries/bus"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/common"
	"memoryweb/pkg/errors"
)

// CollectionHandler exposes collection management over HTTP
type CollectionHandler struct {
	creator  *commandhandlers.CreateCollectionHandler
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewCollectionHandler creates a collection handler
func NewCollectionHandler(
	creator *commandhandlers.CreateCollectionHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *CollectionHandler {
	return &CollectionHandler{
		creator:  creator,
		queryBus: queryBus,
		logger:   logger,
	}
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCollection handles POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req createCollectionRequest
	if err := common.ParseJSONBody(w, r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	cmd := commands.CreateCollectionCommand{
		UserID:      user.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondAppError(w, errors.NewValidationError(err.Error()))
		return
	}

	collection, err := h.creator.HandleCreate(r.Context(), cmd)
	if err != nil {
		h.logger.Error("create collection failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.CollectionView{
		ID:          collection.ID(),
		Name:        collection.Name(),
		Description: collection.Description(),
		CreatedAt:   collection.CreatedAt(),
		UpdatedAt:   collection.UpdatedAt(),
	})
}

// ListCollections handles GET /api/v1/collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListCollectionsQuery{UserID: user.UserID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
