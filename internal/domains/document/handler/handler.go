package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/document/model"
	"agency-erp/internal/domains/document/service"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

type DocumentHandler struct {
	service service.ServiceInterface
}

func NewDocumentHandler(s service.ServiceInterface) *DocumentHandler {
	return &DocumentHandler{service: s}
}

// Create
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req model.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, doc)
}

// Get
// GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// Update
// PUT /api/v1/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// Delete
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Document deleted"})
}

// List
// GET /api/v1/documents?type=&status=&clientId=&projectId=&search=
func (h *DocumentHandler) List(c *gin.Context) {
	f := model.Filter{Search: c.Query("search")}
	if v := c.Query("type"); v != "" {
		t := model.DocumentType(v)
		f.Type = &t
	}
	if v := c.Query("status"); v != "" {
		st := model.DocumentStatus(v)
		f.Status = &st
	}
	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid clientId")
			return
		}
		f.ClientID = &id
	}
	if v := c.Query("projectId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid projectId")
			return
		}
		f.ProjectID = &id
	}

	docs, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

// UploadAttachment
// POST /api/v1/documents/:id/attachment (multipart, field "file")
func (h *DocumentHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "cannot read file")
		return
	}
	defer f.Close()

	doc, err := h.service.UploadAttachment(c.Request.Context(), id, service.AttachmentInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// GetAttachment trả về presigned URL
// GET /api/v1/documents/:id/attachment
func (h *DocumentHandler) GetAttachment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	att, err := h.service.GetAttachment(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, att)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	var de *model.DocumentError
	if errors.As(err, &de) {
		switch {
		case errors.Is(err, model.ErrDocumentNotFound), errors.Is(err, model.ErrNoAttachment):
			response.ErrorResponse(c, http.StatusNotFound, de.Code, de.Message)
		case errors.Is(err, model.ErrInvalidReference):
			response.ErrorResponse(c, http.StatusBadRequest, de.Code, de.Message)
		case errors.Is(err, model.ErrStorageUnavailable):
			response.ErrorResponse(c, http.StatusServiceUnavailable, de.Code, de.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, de.Code, de.Message)
		}
		return
	}

	logger.Error("Document handler error", err)
	response.InternalServerError(c, "Internal server error")
}
