package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/transaction/model"
	"agency-erp/internal/domains/transaction/service"
	"agency-erp/internal/shared/response"
	"agency-erp/internal/shared/types"
	"agency-erp/pkg/logger"
)

type TransactionHandler struct {
	service service.ServiceInterface
}

func NewTransactionHandler(s service.ServiceInterface) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// Create
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// Get
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Update
// PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req model.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Delete
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List
// GET /api/v1/transactions?from=&to=&type=&clientId=&projectId=&category=&page=&limit=
func (h *TransactionHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// Summary
// GET /api/v1/transactions/summary?from=2026-10-01&to=2026-11-01
// Mặc định là tháng hiện tại.
func (h *TransactionHandler) Summary(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		from = d.Time
	}
	if v := c.Query("to"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		to = d.Time
	}
	if !to.After(from) {
		response.BadRequest(c, "to must be after from")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func parseFilter(c *gin.Context) (model.Filter, error) {
	f := model.Filter{}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("from"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.From = &d.Time
	}
	if v := c.Query("to"); v != "" {
		d, err := types.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.To = &d.Time
	}
	if v := c.Query("type"); v != "" {
		tt := model.TransactionType(v)
		if tt != model.TypeRevenue && tt != model.TypeExpense {
			return f, errors.New("type must be REVENUE or EXPENSE")
		}
		f.Type = &tt
	}
	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, errors.New("invalid clientId")
		}
		f.ClientID = &id
	}
	if v := c.Query("projectId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, errors.New("invalid projectId")
		}
		f.ProjectID = &id
	}
	if v := c.Query("category"); v != "" {
		f.Category = &v
	}
	return f, nil
}

func handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	var te *model.TransactionError
	if errors.As(err, &te) {
		switch {
		case errors.Is(err, model.ErrTransactionNotFound):
			response.ErrorResponse(c, http.StatusNotFound, te.Code, te.Message)
		case errors.Is(err, model.ErrInvalidReference):
			response.ErrorResponse(c, http.StatusBadRequest, te.Code, te.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, te.Code, te.Message)
		}
		return
	}

	logger.Error("transaction request failed", err)
	response.InternalServerError(c, "Internal server error")
}
