package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"agency-erp/internal/config"
)

const (
	defaultAPIBase  = "https://www.googleapis.com/calendar/v3"
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	dateLayout      = "2006-01-02"
)

var (
	ErrNotConfigured = errors.New("google calendar is not configured")
	ErrGoogleAPI     = errors.New("google calendar api error")
	ErrGoogleTimeout = errors.New("google calendar request timed out")
)

// Event là một sự kiện cả ngày trên Google Calendar
type Event struct {
	Summary     string
	Description string
	Date        time.Time
}

// CalendarClient gọi Google Calendar REST API bằng refresh token của tài khoản công ty
type CalendarClient struct {
	httpClient *http.Client
	apiBase    string
	calendarID string
}

type options struct {
	apiBase  string
	tokenURL string
}

type Option func(*options)

// WithEndpoints đổi API base và token URL (test với httptest)
func WithEndpoints(apiBase, tokenURL string) Option {
	return func(o *options) {
		o.apiBase = apiBase
		o.tokenURL = tokenURL
	}
}

// NewCalendarClient; access token được cache và refresh tự động khi hết hạn
func NewCalendarClient(cfg config.GoogleConfig, opts ...Option) (*CalendarClient, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	o := options{apiBase: defaultAPIBase, tokenURL: defaultTokenURL}
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   defaultAuthURL,
			TokenURL:  o.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// Token refresh cũng dùng chung timeout
	base := &http.Client{Timeout: timeout}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauthCfg.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	httpClient := oauth2.NewClient(tokenCtx, ts)
	httpClient.Timeout = timeout

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &CalendarClient{
		httpClient: httpClient,
		apiBase:    o.apiBase,
		calendarID: calendarID,
	}, nil
}

type eventDate struct {
	Date string `json:"date"`
}

type eventBody struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       eventDate `json:"start"`
	End         eventDate `json:"end"`
}

type eventResponse struct {
	ID string `json:"id"`
}

func toBody(ev Event) eventBody {
	day := time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(), 0, 0, 0, 0, time.UTC)
	return eventBody{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       eventDate{Date: day.Format(dateLayout)},
		// end.date của all-day event là exclusive
		End: eventDate{Date: day.AddDate(0, 0, 1).Format(dateLayout)},
	}
}

func (c *CalendarClient) eventsURL(eventID string) string {
	u := fmt.Sprintf("%s/calendars/%s/events", c.apiBase, url.PathEscape(c.calendarID))
	if eventID != "" {
		u += "/" + url.PathEscape(eventID)
	}
	return u
}

// InsertEvent tạo event và trả về id phía Google
func (c *CalendarClient) InsertEvent(ctx context.Context, ev Event) (string, error) {
	var out eventResponse
	if err := c.do(ctx, http.MethodPost, c.eventsURL(""), toBody(ev), &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// UpdateEvent ghi đè summary/description/ngày của event đã sync
func (c *CalendarClient) UpdateEvent(ctx context.Context, eventID string, ev Event) error {
	return c.do(ctx, http.MethodPut, c.eventsURL(eventID), toBody(ev), nil)
}

// DeleteEvent; event đã bị xoá phía Google (404/410) coi như thành công
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.do(ctx, http.MethodDelete, c.eventsURL(eventID), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusGone) {
		return nil
	}
	return err
}

// APIError giữ HTTP status trả về từ Google
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google calendar: status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return ErrGoogleAPI
}

func (c *CalendarClient) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %v", ErrGoogleTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrGoogleAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Status: resp.StatusCode, Body: string(msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
