package note

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/middleware"
	"github.com/raynet-care/care-api/internal/model"
	notesvc "github.com/raynet-care/care-api/internal/service/note"
	"github.com/raynet-care/care-api/internal/service/report"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

type Handler struct {
	service notesvc.NoteService
	reports report.ReportService
}

func NewHandler(service notesvc.NoteService, reports report.ReportService) *Handler {
	return &Handler{service: service, reports: reports}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/service-users/:id/notes")
	{
		n.GET("", h.ListNotes)
		n.POST("", h.CreateNote)
		n.GET("/export", h.ExportNotes)
	}
}

func (h *Handler) ListNotes(c *gin.Context) {
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

	notes, err := h.service.ListNotes(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, notes)
}

func (h *Handler) CreateNote(c *gin.Context) {
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

	var req model.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	created, err := h.service.CreateNote(c.Request.Context(), actor, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

// ExportNotes streams the note history PDF. Optional start/end query
// parameters are ISO dates, inclusive on both ends.
func (h *Handler) ExportNotes(c *gin.Context) {
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

	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid start date", err))
		return
	}
	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid end date", err))
		return
	}

	pdf, filename, err := h.reports.ExportNotes(c.Request.Context(), actor, id, start, end)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename=%q`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
