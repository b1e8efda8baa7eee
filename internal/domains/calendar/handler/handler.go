package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/calendar/model"
	"agency-erp/internal/domains/calendar/service"
	reportservice "agency-erp/internal/domains/report/service"
	"agency-erp/internal/shared/response"
	"agency-erp/internal/shared/types"
	"agency-erp/pkg/logger"
)

type CalendarHandler struct {
	service service.ServiceInterface
	loc     *time.Location
	now     func() time.Time
}

func NewCalendarHandler(s service.ServiceInterface, loc *time.Location) *CalendarHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarHandler{service: s, loc: loc, now: time.Now}
}

// List
// GET /api/v1/calendar/events?from=2026-10-01&to=2026-11-01
// Không truyền range thì lấy tháng hiện tại
func (h *CalendarHandler) List(c *gin.Context) {
	current, _ := reportservice.MonthWindow(h.now(), h.loc)
	from, to := current.Start, current.End

	if v := c.Query("from"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			response.BadRequest(c, "Invalid from date")
			return
		}
		from = d.Time
	}
	if v := c.Query("to"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			response.BadRequest(c, "Invalid to date")
			return
		}
		to = d.Time
	}
	if !to.After(from) {
		response.BadRequest(c, "to must be after from")
		return
	}

	events, err := h.service.List(c.Request.Context(), from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// Create
// POST /api/v1/calendar/events
func (h *CalendarHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, event)
}

// Delete
// DELETE /api/v1/calendar/events/:id
func (h *CalendarHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Event deleted"})
}

// Rebuild
// POST /api/v1/calendar/rebuild
func (h *CalendarHandler) Rebuild(c *gin.Context) {
	result, err := h.service.Rebuild(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Sync
// POST /api/v1/calendar/sync
func (h *CalendarHandler) Sync(c *gin.Context) {
	result, err := h.service.Sync(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	var ce *model.CalendarError
	if errors.As(err, &ce) {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			response.ErrorResponse(c, http.StatusNotFound, ce.Code, ce.Message)
		case errors.Is(err, model.ErrGeneratedReadOnly):
			response.ErrorResponse(c, http.StatusConflict, ce.Code, ce.Message)
		case errors.Is(err, model.ErrSyncNotConfigured):
			response.ErrorResponse(c, http.StatusServiceUnavailable, ce.Code, ce.Message)
		case errors.Is(err, model.ErrSyncTimeout):
			response.ErrorResponse(c, http.StatusGatewayTimeout, ce.Code, ce.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, ce.Code, ce.Message)
		}
		return
	}

	logger.Error("Calendar handler error", err)
	response.InternalServerError(c, "Internal server error")
}
