package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_Success(t *testing.T) {
	var got postMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	c := NewClient("xoxb-test", time.Second).WithBaseURL(srv.URL)
	ts, err := c.PostMessage(context.Background(), "C123", "hello", "1699.1")
	require.NoError(t, err)
	assert.Equal(t, "1700000000.000100", ts)
	assert.Equal(t, "C123", got.Channel)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "1699.1", got.ThreadTS)
}

func TestSendMessage_OkFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer srv.Close()

	err := NewClient("xoxb-test", time.Second).WithBaseURL(srv.URL).SendMessage(context.Background(), "C404", "x")
	require.ErrorIs(t, err, ErrSlackAPI)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestSendMessage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := NewClient("xoxb-test", 20*time.Millisecond).WithBaseURL(srv.URL).SendMessage(context.Background(), "C1", "x")
	assert.ErrorIs(t, err, ErrSinkTimeout)
}

func TestSendMessage_NoToken(t *testing.T) {
	err := NewClient("", time.Second).SendMessage(context.Background(), "C1", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"type":"event_callback"}`)
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := BuildSignature("signing", ts, body)

	assert.NoError(t, VerifySignature("signing", ts, sig, body, now))
	assert.NoError(t, VerifySignature("signing", ts, sig, body, now.Add(4*time.Minute)))
	assert.ErrorIs(t, VerifySignature("signing", ts, sig, body, now.Add(6*time.Minute)), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("other", ts, sig, body, now), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("signing", ts, sig, []byte("tampered"), now), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("signing", "abc", sig, body, now), ErrInvalidSignature)
}
