package staff

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/middleware"
	"github.com/raynet-care/care-api/internal/model"
	staffsvc "github.com/raynet-care/care-api/internal/service/staff"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

type Handler struct {
	service staffsvc.StaffService
}

func NewHandler(service staffsvc.StaffService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staff := r.Group("/staff")
	{
		staff.POST("", h.CreateProfile)
		staff.GET("/:id", h.GetProfile)
		staff.PUT("/:id/assignments", h.AssignServiceUsers)
	}
}

func (h *Handler) CreateProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	var req model.CreateStaffProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, profile)
}

func (h *Handler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff profile ID", err))
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) AssignServiceUsers(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff profile ID", err))
		return
	}

	var req model.AssignServiceUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	serviceUserIDs := make([]uuid.UUID, 0, len(req.ServiceUserIDs))
	for _, raw := range req.ServiceUserIDs {
		suID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest(fmt.Sprintf("invalid service user ID: %s", raw), err))
			return
		}
		serviceUserIDs = append(serviceUserIDs, suID)
	}

	if err := h.service.AssignServiceUsers(c.Request.Context(), actor, id, serviceUserIDs); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"assigned": len(serviceUserIDs)})
}
