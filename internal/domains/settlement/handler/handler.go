package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/settlement/service"
	"agency-erp/internal/shared/response"
	"agency-erp/internal/shared/types"
	"agency-erp/pkg/logger"
)

// =====================================================
// SETTLEMENT HANDLER
// =====================================================

type SettlementHandler struct {
	service service.ServiceInterface
}

func NewSettlementHandler(s service.ServiceInterface) *SettlementHandler {
	return &SettlementHandler{service: s}
}

// SyncCollaborators replaces the influencer list of a project
// PUT /api/v1/projects/:id/collaborators
func (h *SettlementHandler) SyncCollaborators(c *gin.Context) {
	// Step 1: Parse project ID
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	// Step 2: Bind request body
	var req model.SyncCollaboratorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Validate
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	// Step 4: Call service
	rows, err := h.service.SyncCollaborators(c.Request.Context(), projectID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.SyncCollaboratorsResponse{ProjectInfluencers: rows})
}

// ListByProject
// GET /api/v1/projects/:id/settlements
func (h *SettlementHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	rows, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.SyncCollaboratorsResponse{ProjectInfluencers: emptyIfNil(rows)})
}

// List
// GET /api/v1/settlements?projectId=&influencerId=&status=&dueFrom=&dueTo=
func (h *SettlementHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, emptyIfNil(rows), &response.Meta{Total: len(rows)})
}

// Summary
// GET /api/v1/settlements/summary
func (h *SettlementHandler) Summary(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// Get
// GET /api/v1/settlements/:id
func (h *SettlementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid settlement ID")
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// UpdateStatus
// PATCH /api/v1/settlements/:id/status
func (h *SettlementHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid settlement ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	d, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// Export
// GET /api/v1/settlements/export
func (h *SettlementHandler) Export(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	f, err := h.service.ExportToExcel(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("settlements_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to write settlement export", err)
	}
}

// =====================================================
// HELPERS
// =====================================================

func parseFilter(c *gin.Context) (model.ListFilter, error) {
	var f model.ListFilter

	if v := c.Query("projectId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("invalid projectId")
		}
		f.ProjectID = &id
	}
	if v := c.Query("influencerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("invalid influencerId")
		}
		f.InfluencerID = &id
	}
	if v := c.Query("status"); v != "" {
		st := model.NormalizeStatus(v)
		f.Status = &st
	}
	if v := c.Query("dueFrom"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.DueFrom = &d.Time
	}
	if v := c.Query("dueTo"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.DueTo = &d.Time
	}
	return f, nil
}

func emptyIfNil(rows []*model.SettlementDetail) []*model.SettlementDetail {
	if rows == nil {
		return []*model.SettlementDetail{}
	}
	return rows
}

func (h *SettlementHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	status, code := mapSettlementError(err)
	var se *model.SettlementError
	if !errors.As(err, &se) {
		if status == http.StatusInternalServerError {
			logger.Error("settlement request failed", err)
			response.InternalServerError(c, "Internal server error")
			return
		}
		response.ErrorResponse(c, status, code, err.Error())
		return
	}
	response.ErrorResponse(c, status, code, se.Message)
}

func mapSettlementError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrSettlementNotFound):
		return http.StatusNotFound, model.ErrCodeSettlementNotFound
	case errors.Is(err, model.ErrProjectNotFound):
		return http.StatusNotFound, model.ErrCodeProjectNotFound
	case errors.Is(err, model.ErrInfluencerNotFound):
		return http.StatusNotFound, model.ErrCodeInfluencerNotFound
	case errors.Is(err, model.ErrDuplicateInfluencer):
		return http.StatusConflict, model.ErrCodeDuplicateEntry
	case errors.Is(err, model.ErrSyncFailed):
		return http.StatusInternalServerError, model.ErrCodeSyncFailed
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
