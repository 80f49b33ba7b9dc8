package sync

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raynet-care/care-api/internal/middleware"
	"github.com/raynet-care/care-api/internal/model"
	notesvc "github.com/raynet-care/care-api/internal/service/note"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

// Handler accepts batches of notes queued by offline clients. The
// response keeps the flat {saved, errors} shape the deployed offline
// client expects, so it does not use the standard envelope.
type Handler struct {
	service notesvc.NoteService
}

func NewHandler(service notesvc.NoteService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sync/notes", h.SyncNotes)
}

func (h *Handler) SyncNotes(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing actor")))
		return
	}

	var req model.SyncNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.SyncNotesResponse{
			Saved:  0,
			Errors: []string{"Invalid JSON"},
		})
		return
	}

	outcomes, err := h.service.SyncNotes(c.Request.Context(), actor, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, foldOutcomes(outcomes))
}

// foldOutcomes collapses per-item outcomes into the legacy response:
// duplicates are silent, failures become ordered messages carrying the
// item index so the client knows which queued entry to drop or retry.
func foldOutcomes(outcomes []model.SyncOutcome) model.SyncNotesResponse {
	resp := model.SyncNotesResponse{Errors: []string{}}
	for _, o := range outcomes {
		switch o.Status {
		case model.SyncSaved:
			resp.Saved++
		case model.SyncFailed:
			resp.Errors = append(resp.Errors, fmt.Sprintf("Note %d: %s", o.Index, o.Reason))
		}
	}
	return resp
}
