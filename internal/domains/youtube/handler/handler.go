package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"agency-erp/internal/domains/youtube/model"
	"agency-erp/internal/domains/youtube/service"
	"agency-erp/internal/infrastructure/youtube"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

type YoutubeHandler struct {
	service service.ServiceInterface
}

func NewYoutubeHandler(s service.ServiceInterface) *YoutubeHandler {
	return &YoutubeHandler{service: s}
}

// Search
// GET /api/v1/youtube/search?q=&maxResults=&order=&pageToken=&regionCode=
func (h *YoutubeHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Export
// GET /api/v1/youtube/export?q=... trả về cùng dữ liệu dạng xlsx
func (h *YoutubeHandler) Export(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	f, err := service.BuildWorkbook(result)
	if err != nil {
		logger.Error("failed to build youtube export", err)
		response.InternalServerError(c, "Internal server error")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("youtube_%s_%s.xlsx", safeName(result.Query), time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to write youtube export", err)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func safeName(q string) string {
	name := unsafeFileChars.ReplaceAllString(q, "_")
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "search"
	}
	return name
}

func handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}

	switch {
	case errors.Is(err, youtube.ErrTimeout):
		response.GatewayTimeout(c, "request timed out")
	case errors.Is(err, youtube.ErrQuotaExceeded),
		errors.Is(err, youtube.ErrKeyInvalid),
		errors.Is(err, youtube.ErrNotConfigured):
		logger.Warn("youtube unavailable", map[string]interface{}{"error": err.Error()})
		response.ServiceUnavailable(c, "service temporarily unavailable")
	case errors.Is(err, youtube.ErrBadRequest):
		response.BadRequest(c, "invalid search query")
	case errors.Is(err, model.ErrRateLimited):
		response.TooManyRequests(c, "too many requests, try again shortly")
	default:
		logger.Error("YouTube handler error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
