package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/project/model"
	"agency-erp/internal/domains/project/service"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

type ProjectHandler struct {
	service service.ServiceInterface
}

func NewProjectHandler(s service.ServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: s}
}

// Create
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// Get
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Update
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	var req model.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Delete
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List
// GET /api/v1/projects?clientId=&status=&search=
func (h *ProjectHandler) List(c *gin.Context) {
	f := model.Filter{Search: c.Query("search")}
	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid clientId")
			return
		}
		f.ClientID = &id
	}
	if v := c.Query("status"); v != "" {
		st := model.ProjectStatus(v)
		f.Status = &st
	}

	items, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	var pe *model.ProjectError
	if errors.As(err, &pe) {
		switch {
		case errors.Is(err, model.ErrProjectNotFound):
			response.ErrorResponse(c, http.StatusNotFound, pe.Code, pe.Message)
		case errors.Is(err, model.ErrClientNotFound):
			response.ErrorResponse(c, http.StatusBadRequest, pe.Code, pe.Message)
		case errors.Is(err, model.ErrProjectHasDependents):
			response.ErrorResponse(c, http.StatusConflict, pe.Code, pe.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, pe.Code, pe.Message)
		}
		return
	}

	logger.Error("project handler error", err)
	response.InternalServerError(c, "Internal server error")
}
