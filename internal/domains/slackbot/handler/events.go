package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"agency-erp/internal/domains/slackbot/model"
	"agency-erp/internal/domains/slackbot/service"
	"agency-erp/internal/infrastructure/slack"
	"agency-erp/internal/shared/response"
	"agency-erp/pkg/logger"
	"agency-erp/pkg/metrics"
)

// HandleBudget thời gian tối đa cho một event chạy nền
const HandleBudget = 15 * time.Second

const maxBodyBytes = 1 << 20

// slack_events_total outcome labels
const (
	outcomeChallenge = "challenge"
	outcomeRejected  = "rejected"
	outcomeDuplicate = "duplicate"
	outcomeIgnored   = "ignored"
	outcomeHandled   = "handled"
	outcomeFailed    = "failed"
)

type EventsHandler struct {
	bot           service.ServiceInterface
	dedup         *service.Deduplicator
	signingSecret string
	metrics       *metrics.Metrics
	budget        time.Duration
	now           func() time.Time

	wg sync.WaitGroup
}

// NewEventsHandler: signingSecret rỗng thì bỏ qua verify (dev)
func NewEventsHandler(bot service.ServiceInterface, dedup *service.Deduplicator, signingSecret string, m *metrics.Metrics) *EventsHandler {
	return &EventsHandler{
		bot:           bot,
		dedup:         dedup,
		signingSecret: signingSecret,
		metrics:       m,
		budget:        HandleBudget,
		now:           time.Now,
	}
}

// Handle
// @Summary Slack Events API webhook
// @Router /api/slack/events [post]
func (h *EventsHandler) Handle(c *gin.Context) {
	// Step 1: Read raw body (signature tính trên bytes gốc)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		response.BadRequest(c, "cannot read body")
		return
	}

	// Step 2: Verify signature
	if h.signingSecret != "" {
		err := slack.VerifySignature(
			h.signingSecret,
			c.GetHeader(model.HeaderTimestamp),
			c.GetHeader(model.HeaderSignature),
			body,
			h.now(),
		)
		if err != nil {
			h.metrics.SlackEvent(outcomeRejected)
			logger.Warn("slack signature rejected", map[string]interface{}{"ip": c.ClientIP()})
			response.Unauthorized(c, "invalid signature")
			return
		}
	}

	// Step 3: Parse envelope
	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}

	switch env.Type {
	case model.EnvelopeURLVerification:
		h.metrics.SlackEvent(outcomeChallenge)
		c.JSON(http.StatusOK, gin.H{"challenge": env.Challenge})
		return
	case model.EnvelopeEventCallback:
	default:
		h.metrics.SlackEvent(outcomeIgnored)
		c.Status(http.StatusOK)
		return
	}

	// Step 4: Dedup theo event_id (Slack retry khi không nhận ack trong 3s)
	if h.dedup.Seen(env.EventID) {
		h.metrics.SlackEvent(outcomeDuplicate)
		logger.Info("slack event duplicate dropped", map[string]interface{}{
			"event_id":  env.EventID,
			"retry_num": c.GetHeader(model.HeaderRetryNum),
		})
		c.Status(http.StatusOK)
		return
	}

	if !env.Event.Actionable() {
		h.metrics.SlackEvent(outcomeIgnored)
		c.Status(http.StatusOK)
		return
	}

	// Step 5: Ack ngay, xử lý nền với budget riêng (không dùng request context)
	ev := *env.Event
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.process(env.EventID, &ev)
	}()

	c.Status(http.StatusOK)
}

func (h *EventsHandler) process(eventID string, ev *model.InnerEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.SlackEvent(outcomeFailed)
			logger.Error("slack event handler panic", fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.budget)
	defer cancel()

	if err := h.bot.HandleEvent(ctx, ev); err != nil {
		h.metrics.SlackEvent(outcomeFailed)
		logger.ErrorWithFields("slack event failed", err, map[string]interface{}{
			"event_id": eventID,
			"channel":  ev.Channel,
		})
		return
	}
	h.metrics.SlackEvent(outcomeHandled)
}

// Wait blocks until background event handlers finish
func (h *EventsHandler) Wait() {
	h.wg.Wait()
}
