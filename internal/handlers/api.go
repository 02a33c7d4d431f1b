package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/showcase/internal/dto"
	apierrors "github.com/yukikurage/showcase/internal/errors"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/services"
	"github.com/yukikurage/showcase/internal/utils"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	entities *services.EntityService
	identity *services.IdentityService
	logger   logging.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(entities *services.EntityService, identity *services.IdentityService, logger logging.Logger) *APIHandler {
	return &APIHandler{
		entities: entities,
		identity: identity,
		logger:   logger,
	}
}

// ListEntities returns a page of entities in listing order.
func (h *APIHandler) ListEntities(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	page, err := h.entities.ListPage(params)
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to list entities", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntityListResponse(h.entities.Kind(), page.Entities, page.Params, page.Total))
}

// GetEntity returns a single entity.
func (h *APIHandler) GetEntity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid entity ID")
		return
	}

	entity, err := h.entities.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		h.logger.Error(c.Request.Context(), "failed to get entity", "id", id, "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntityDTO(h.entities.Kind(), *entity))
}

// CurrentUser returns the authenticated user. A session whose user no longer
// exists is treated as logged out.
func (h *APIHandler) CurrentUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.identity.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}
		h.logger.Error(c.Request.Context(), "failed to load current user", "user_id", userID, "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
