package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultMaxResults = 25
	MaxMaxResults     = 50
)

var ErrRateLimited = errors.New("too many youtube requests")

// SearchRequest GET /api/v1/youtube/search
type SearchRequest struct {
	Query      string `form:"q"`
	MaxResults int    `form:"maxResults"`
	Order      string `form:"order"`
	PageToken  string `form:"pageToken"`
	RegionCode string `form:"regionCode"`
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MaxResults, validation.Min(0), validation.Max(MaxMaxResults)),
		validation.Field(&r.Order, validation.In("relevance", "date", "viewCount", "rating", "title")),
		validation.Field(&r.RegionCode, validation.Length(2, 2)),
	)
}

// Normalize trim query và áp default; dùng làm cache key nên phải ổn định
func (r SearchRequest) Normalize() SearchRequest {
	r.Query = strings.Join(strings.Fields(r.Query), " ")
	if r.MaxResults == 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.Order == "" {
		r.Order = "relevance"
	}
	r.RegionCode = strings.ToUpper(r.RegionCode)
	return r
}

// VideoRow là một video đã enrich với statistics của video và channel
type VideoRow struct {
	VideoID         string    `json:"videoId"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelID       string    `json:"channelId"`
	ChannelTitle    string    `json:"channelTitle"`
	PublishedAt     time.Time `json:"publishedAt"`
	Thumbnail       string    `json:"thumbnail"`
	ViewCount       int64     `json:"viewCount"`
	LikeCount       int64     `json:"likeCount"`
	CommentCount    int64     `json:"commentCount"`
	SubscriberCount int64     `json:"subscriberCount"`
	DurationSeconds int64     `json:"durationSeconds"`
	Duration        string    `json:"duration"`
	EngagementRate  float64   `json:"engagementRate"` // (like + comment) / view * 100
}

type SearchResult struct {
	Query         string     `json:"query"`
	Items         []VideoRow `json:"items"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
	TotalResults  int64      `json:"totalResults"`
	Cached        bool       `json:"cached"`
	FetchedAt     time.Time  `json:"fetchedAt"`
}
