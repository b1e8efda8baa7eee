package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agency-erp/internal/domains/report/model"
	"agency-erp/internal/domains/report/service"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
)

// CronHandler expose 3 report job qua HTTP để external cron (hoặc dev) trigger
type CronHandler struct {
	service service.ServiceInterface
	loc     *time.Location
}

func NewCronHandler(s service.ServiceInterface, loc *time.Location) *CronHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronHandler{service: s, loc: loc}
}

// RegisterRoutes gắn GET và POST cho từng job; caller tự bọc CronAuth
func (h *CronHandler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := map[string]model.JobName{
		"/daily-alerts":   model.JobDailyAlerts,
		"/weekly-report":  model.JobWeeklyReport,
		"/monthly-report": model.JobMonthlyReport,
	}
	for path, job := range routes {
		rg.GET(path, h.Run(job))
		rg.POST(path, h.Run(job))
	}
}

// Run
// @Summary Trigger a report job
// @Param date query string false "reference date YYYY-MM-DD"
// @Router /api/cron/{job} [post]
func (h *CronHandler) Run(job model.JobName) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Step 1: optional reference date
		var ref *time.Time
		if raw := c.Query("date"); raw != "" {
			d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
			if err != nil {
				response.BadRequest(c, "date must be YYYY-MM-DD")
				return
			}
			ref = &d
		}

		// Step 2: run synchronously, cron caller đợi kết quả
		result, err := h.service.Run(c.Request.Context(), job, ref)
		if err != nil {
			if errors.Is(err, service.ErrUnknownJob) {
				response.NotFound(c, err.Error())
				return
			}
			logger.ErrorWithFields("cron job failed", err, map[string]interface{}{"job": string(job)})
			response.InternalServerError(c, "report job failed")
			return
		}

		response.Success(c, http.StatusOK, result)
	}
}
