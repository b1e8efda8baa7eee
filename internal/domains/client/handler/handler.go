package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/client/model"
	"agency-erp/internal/domains/client/service"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

type ClientHandler struct {
	service service.ServiceInterface
}

func NewClientHandler(s service.ServiceInterface) *ClientHandler {
	return &ClientHandler{service: s}
}

// Create
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	client, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, client)
}

// Get
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

// Update
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	client, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

// Delete
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List
// GET /api/v1/clients?search=&status=
func (h *ClientHandler) List(c *gin.Context) {
	f := model.Filter{Search: c.Query("search")}
	if v := c.Query("status"); v != "" {
		st := model.ClientStatus(v)
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

	var ce *model.ClientError
	if errors.As(err, &ce) {
		switch {
		case errors.Is(err, model.ErrClientNotFound):
			response.ErrorResponse(c, http.StatusNotFound, ce.Code, ce.Message)
		case errors.Is(err, model.ErrClientHasDependents):
			response.ErrorResponse(c, http.StatusConflict, ce.Code, ce.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, ce.Code, ce.Message)
		}
		return
	}

	logger.Error("client handler error", err)
	response.InternalServerError(c, "Internal server error")
}
