package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/influencer/model"
	"agency-erp/internal/domains/influencer/service"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

type InfluencerHandler struct {
	service service.ServiceInterface
}

func NewInfluencerHandler(s service.ServiceInterface) *InfluencerHandler {
	return &InfluencerHandler{service: s}
}

// Create
// POST /api/v1/influencers
func (h *InfluencerHandler) Create(c *gin.Context) {
	var req model.CreateInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	influencer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, influencer)
}

// Get
// GET /api/v1/influencers/:id
func (h *InfluencerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid influencer ID")
		return
	}

	influencer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, influencer)
}

// Update
// PUT /api/v1/influencers/:id
func (h *InfluencerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid influencer ID")
		return
	}

	var req model.UpdateInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	influencer, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, influencer)
}

// Delete
// DELETE /api/v1/influencers/:id
func (h *InfluencerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid influencer ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List
// GET /api/v1/influencers?search=&category=&platform=
func (h *InfluencerHandler) List(c *gin.Context) {
	f := model.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Platform: c.Query("platform"),
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

	var ie *model.InfluencerError
	if errors.As(err, &ie) {
		switch {
		case errors.Is(err, model.ErrInfluencerNotFound):
			response.ErrorResponse(c, http.StatusNotFound, ie.Code, ie.Message)
		case errors.Is(err, model.ErrInfluencerHasDependents):
			response.ErrorResponse(c, http.StatusConflict, ie.Code, ie.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, ie.Code, ie.Message)
		}
		return
	}

	logger.Error("influencer handler error", err)
	response.InternalServerError(c, "Internal server error")
}
