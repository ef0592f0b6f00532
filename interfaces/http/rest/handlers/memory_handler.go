package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"memoryweb/application/commands"
	commandbus "memoryweb/application/commands/bus"
	commandhandlers "memoryweb/application/commands/handlers"
	"memoryweb/application/queries"
	querybus "memoryweb/application/queries/bus"
	queryhandlers "memoryweb/application/queries/handlers"
	"memoryweb/pkg/auth"
	"memoryweb/pkg/common"
	"memoryweb/pkg/errors"
)

const maxRequestBody = 1 << 20 // 1 MiB

// MemoryHandler exposes memory CRUD over HTTP. Creation goes through the
// typed orchestrator so the response can carry the new memory; update and
// delete dispatch through the command bus.
type MemoryHandler struct {
	creator    *commandhandlers.CreateMemoryHandler
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewMemoryHandler creates a memory handler
func NewMemoryHandler(
	creator *commandhandlers.CreateMemoryHandler,
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MemoryHandler {
	return &MemoryHandler{
		creator:    creator,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createMemoryRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Format       string   `json:"format"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images"`
	Links        []string `json:"links"`
	CollectionID string   `json:"collectionId"`
}

type updateMemoryRequest struct {
	Title        *string   `json:"title"`
	Content      *string   `json:"content"`
	Format       *string   `json:"format"`
	Tags         *[]string `json:"tags"`
	CollectionID *string   `json:"collectionId"`
}

// CreateMemory handles POST /api/v1/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req createMemoryRequest
	if err := common.ParseJSONBody(w, r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	cmd := commands.CreateMemoryCommand{
		UserID:       user.UserID,
		Title:        req.Title,
		Content:      req.Content,
		Format:       req.Format,
		Tags:         req.Tags,
		Images:       req.Images,
		Links:        req.Links,
		CollectionID: req.CollectionID,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondAppError(w, errors.NewValidationError(err.Error()))
		return
	}

	memory, err := h.creator.HandleCreate(r.Context(), cmd)
	if err != nil {
		h.logger.Error("create memory failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	view := queryhandlers.ToGraphMemory(memory)
	common.RespondJSON(w, http.StatusCreated, view)
}

// GetMemory handles GET /api/v1/memories/{memoryID}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMemoryQuery{
		UserID:   user.UserID,
		MemoryID: chi.URLParam(r, "memoryID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateMemory handles PUT /api/v1/memories/{memoryID}
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req updateMemoryRequest
	if err := common.ParseJSONBody(w, r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	cmd := commands.UpdateMemoryCommand{
		UserID:       user.UserID,
		MemoryID:     chi.URLParam(r, "memoryID"),
		Title:        req.Title,
		Content:      req.Content,
		Format:       req.Format,
		Tags:         req.Tags,
		CollectionID: req.CollectionID,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondAppError(w, errors.NewValidationError(err.Error()))
		return
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteMemory handles DELETE /api/v1/memories/{memoryID}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	cmd := commands.DeleteMemoryCommand{
		UserID:   user.UserID,
		MemoryID: chi.URLParam(r, "memoryID"),
	}
	if err := cmd.Validate(); err != nil {
		common.RespondAppError(w, errors.NewValidationError(err.Error()))
		return
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusNoContent, nil)
}
