package document

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/middleware"
	docsvc "github.com/raynet-care/care-api/internal/service/document"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

type Handler struct {
	service docsvc.DocumentService
}

func NewHandler(service docsvc.DocumentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	docs := r.Group("/service-users/:id/documents")
	{
		docs.GET("", h.ListDocuments)
		docs.POST("", h.UploadDocument)
		docs.GET("/:docID/download", h.DownloadDocument)
	}
}

func (h *Handler) ListDocuments(c *gin.Context) {
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

	docs, err := h.service.ListDocuments(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, docs)
}

// UploadDocument accepts a multipart form with category, description
// and the file itself, streamed through to the blob store.
func (h *Handler) UploadDocument(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("file is required", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("failed to read file", err))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(
		c.Request.Context(),
		actor,
		id,
		c.PostForm("category"),
		fileHeader.Filename,
		c.PostForm("description"),
		file,
	)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, doc)
}

// DownloadDocument streams the stored file back to the caller.
func (h *Handler) DownloadDocument(c *gin.Context) {
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

	docID, err := uuid.Parse(c.Param("docID"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid document ID", err))
		return
	}

	doc, file, err := h.service.Download(c.Request.Context(), actor, id, docID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(doc.FilePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filepath.Base(doc.FilePath)))
	c.DataFromReader(http.StatusOK, -1, contentType, file, nil)
}
