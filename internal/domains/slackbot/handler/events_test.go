package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/slackbot/model"
	"agency-erp/internal/domains/slackbot/service"
	"agency-erp/internal/infrastructure/slack"
)

type stubBot struct {
	mu     sync.Mutex
	events []model.InnerEvent
	err    error
}

func (b *stubBot) HandleEvent(_ context.Context, ev *model.InnerEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, *ev)
	return b.err
}

func (b *stubBot) Respond(context.Context, string) (string, error) { return "", nil }

func (b *stubBot) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

const messageEvent = `{"type":"event_callback","event_id":"Ev01","event":{"type":"message","user":"U1","text":"정산","channel":"C1","ts":"1.1"}}`

func setup(secret string) (*gin.Engine, *EventsHandler, *stubBot) {
	gin.SetMode(gin.TestMode)
	bot := &stubBot{}
	h := NewEventsHandler(bot, service.NewDeduplicator(time.Minute, nil), secret, nil)
	r := gin.New()
	r.POST("/api/slack/events", h.Handle)
	return r, h, bot
}

func post(r http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEvents_URLVerification(t *testing.T) {
	r, _, _ := setup("")
	w := post(r, `{"type":"url_verification","challenge":"abc123"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"challenge":"abc123"}`, w.Body.String())
}

func TestEvents_DispatchesOnceForRetries(t *testing.T) {
	r, h, bot := setup("")

	assert.Equal(t, http.StatusOK, post(r, messageEvent, nil).Code)
	assert.Equal(t, http.StatusOK, post(r, messageEvent, map[string]string{model.HeaderRetryNum: "1"}).Code)
	h.Wait()

	require.Equal(t, 1, bot.count())
	assert.Equal(t, "정산", bot.events[0].Text)
	assert.Equal(t, "C1", bot.events[0].Channel)
}

func TestEvents_IgnoresBotsAndEdits(t *testing.T) {
	r, h, bot := setup("")
	post(r, `{"type":"event_callback","event_id":"Ev02","event":{"type":"message","bot_id":"B1","text":"정산","channel":"C1"}}`, nil)
	post(r, `{"type":"event_callback","event_id":"Ev03","event":{"type":"message","subtype":"message_changed","channel":"C1"}}`, nil)
	post(r, `{"type":"event_callback","event_id":"Ev04"}`, nil)
	h.Wait()
	assert.Equal(t, 0, bot.count())
}

func TestEvents_HandlerErrorStillAcks(t *testing.T) {
	r, h, bot := setup("")
	bot.err = errors.New("slack down")
	assert.Equal(t, http.StatusOK, post(r, messageEvent, nil).Code)
	h.Wait()
	assert.Equal(t, 1, bot.count())
}

func TestEvents_Signature(t *testing.T) {
	r, h, bot := setup("signing")
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	w := post(r, messageEvent, map[string]string{
		model.HeaderTimestamp: ts,
		model.HeaderSignature: "v0=deadbeef",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, messageEvent, map[string]string{
		model.HeaderTimestamp: ts,
		model.HeaderSignature: slack.BuildSignature("signing", ts, []byte(messageEvent)),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	h.Wait()
	assert.Equal(t, 1, bot.count())
}

func TestEvents_BadJSON(t *testing.T) {
	r, _, _ := setup("")
	assert.Equal(t, http.StatusBadRequest, post(r, `{nope`, nil).Code)
}
