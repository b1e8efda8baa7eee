package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	ErrNotConfigured = errors.New("youtube api key is not configured")
	ErrTimeout       = errors.New("youtube request timed out")
	ErrQuotaExceeded = errors.New("youtube quota exceeded")
	ErrKeyInvalid    = errors.New("youtube api key invalid")
	ErrBadRequest    = errors.New("youtube rejected the request")
	ErrAPI           = errors.New("youtube api error")
)

// Client gọi YouTube Data API v3 bằng API key
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// =====================================================
// search.list
// =====================================================

type SearchParams struct {
	Query      string
	MaxResults int
	Order      string // relevance, date, viewCount, rating
	PageToken  string
	RegionCode string
}

type SearchItem struct {
	VideoID      string
	ChannelID    string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  time.Time
	Thumbnail    string
}

type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
	TotalResults  int64
}

type thumbnail struct {
	URL string `json:"url"`
}

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int64 `json:"totalResults"`
	} `json:"pageInfo"`
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  time.Time            `json:"publishedAt"`
			ChannelID    string               `json:"channelId"`
			Title        string               `json:"title"`
			Description  string               `json:"description"`
			ChannelTitle string               `json:"channelTitle"`
			Thumbnails   map[string]thumbnail `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", p.Query)
	q.Set("maxResults", strconv.Itoa(p.MaxResults))
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.PageToken != "" {
		q.Set("pageToken", p.PageToken)
	}
	if p.RegionCode != "" {
		q.Set("regionCode", p.RegionCode)
	}

	var resp searchResponse
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return nil, err
	}

	page := &SearchPage{
		NextPageToken: resp.NextPageToken,
		TotalResults:  resp.PageInfo.TotalResults,
		Items:         make([]SearchItem, 0, len(resp.Items)),
	}
	for _, it := range resp.Items {
		if it.ID.VideoID == "" {
			continue
		}
		page.Items = append(page.Items, SearchItem{
			VideoID:      it.ID.VideoID,
			ChannelID:    it.Snippet.ChannelID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ChannelTitle: it.Snippet.ChannelTitle,
			PublishedAt:  it.Snippet.PublishedAt,
			Thumbnail:    pickThumbnail(it.Snippet.Thumbnails),
		})
	}
	return page, nil
}

func pickThumbnail(thumbs map[string]thumbnail) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// =====================================================
// videos.list / channels.list
// =====================================================

type VideoStats struct {
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	DurationSeconds int64
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Videos trả về statistics theo video id; id không có trong response thì không có trong map
func (c *Client) Videos(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	out := make(map[string]VideoStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := url.Values{}
	q.Set("part", "statistics,contentDetails")
	q.Set("id", strings.Join(ids, ","))
	q.Set("maxResults", strconv.Itoa(len(ids)))

	var resp videosResponse
	if err := c.get(ctx, "videos", q, &resp); err != nil {
		return nil, err
	}
	for _, it := range resp.Items {
		secs, _ := ParseISODuration(it.ContentDetails.Duration)
		out[it.ID] = VideoStats{
			ViewCount:       parseCount(it.Statistics.ViewCount),
			LikeCount:       parseCount(it.Statistics.LikeCount),
			CommentCount:    parseCount(it.Statistics.CommentCount),
			DurationSeconds: secs,
		}
	}
	return out, nil
}

type ChannelStats struct {
	SubscriberCount       int64
	HiddenSubscriberCount bool
}

type channelsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount       string `json:"subscriberCount"`
			HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) Channels(ctx context.Context, ids []string) (map[string]ChannelStats, error) {
	out := make(map[string]ChannelStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("maxResults", strconv.Itoa(len(ids)))

	var resp channelsResponse
	if err := c.get(ctx, "channels", q, &resp); err != nil {
		return nil, err
	}
	for _, it := range resp.Items {
		out[it.ID] = ChannelStats{
			SubscriberCount:       parseCount(it.Statistics.SubscriberCount),
			HiddenSubscriberCount: it.Statistics.HiddenSubscriberCount,
		}
	}
	return out, nil
}

// statistics của YouTube là string; field bị ẩn (like tắt) thì rỗng
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// =====================================================
// transport
// =====================================================

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, resource string, q url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+resource+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %s", ErrTimeout, resource)
		}
		return fmt.Errorf("%w: %s: %v", ErrAPI, resource, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classify(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrAPI, resource, err)
	}
	return nil
}

// classify map lỗi Google API sang sentinel theo errors[].reason
func classify(status int, body []byte) error {
	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)

	msg := parsed.Error.Message
	for _, e := range parsed.Error.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
		case "keyInvalid", "keyExpired", "accessNotConfigured", "ipRefererBlocked":
			return fmt.Errorf("%w: %s", ErrKeyInvalid, msg)
		}
	}
	if strings.Contains(msg, "API key not valid") {
		return fmt.Errorf("%w: %s", ErrKeyInvalid, msg)
	}
	if status == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	}
	return fmt.Errorf("%w: status %d: %s", ErrAPI, status, msg)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// url.Error chứa cả query string, không để lộ key ra log
func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, "REDACTED")
}
