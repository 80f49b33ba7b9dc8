package serviceuser

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/middleware"
	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/service/serviceuser"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

type Handler struct {
	service serviceuser.ServiceUserService
}

func NewHandler(service serviceuser.ServiceUserService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/service-users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	users, err := h.service.List(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service user ID", err))
		return
	}

	detail, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, detail)
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	var req model.CreateServiceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	su, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, su)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service user ID", err))
		return
	}

	var req model.UpdateServiceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	su, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, su)
}
