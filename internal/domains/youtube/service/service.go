package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"agency-erp/internal/domains/youtube/model"
	"agency-erp/internal/infrastructure/youtube"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/cache"
	"agency-erp/pkg/logger"
	"agency-erp/pkg/metrics"
)

const cacheKeyPrefix = "youtube:search:"

// Outcome labels cho youtube_requests_total
const (
	OutcomeHit         = "cache_hit"
	OutcomeSuccess     = "success"
	OutcomeTimeout     = "timeout"
	OutcomeUnavailable = "unavailable"
	OutcomeBadRequest  = "bad_request"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// API là phần YouTube client mà service cần
type API interface {
	Search(ctx context.Context, p youtube.SearchParams) (*youtube.SearchPage, error)
	Videos(ctx context.Context, ids []string) (map[string]youtube.VideoStats, error)
	Channels(ctx context.Context, ids []string) (map[string]youtube.ChannelStats, error)
}

type ServiceInterface interface {
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error)
}

type Options struct {
	CacheTTL      time.Duration
	RatePerSecond int
	Burst         int
}

type youtubeService struct {
	api     API
	cache   cache.Cache
	limiter *rate.Limiter
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewYoutubeService; cache và metrics có thể nil
func NewYoutubeService(api API, c cache.Cache, m *metrics.Metrics, opts Options) ServiceInterface {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.RatePerSecond * 2
	}
	return &youtubeService{
		api:     api,
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		ttl:     opts.CacheTTL,
		metrics: m,
		now:     time.Now,
	}
}

func (s *youtubeService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		s.metrics.YoutubeRequest(OutcomeBadRequest)
		return nil, err
	}
	req = req.Normalize()
	key := CacheKey(req)

	// Step 2: Cache (lỗi cache không chặn request)
	if s.cache != nil {
		var cached model.SearchResult
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("youtube cache read failed", map[string]interface{}{"error": err.Error()})
		}
		if found {
			s.metrics.YoutubeRequest(OutcomeHit)
			cached.Cached = true
			return &cached, nil
		}
	}

	// Step 3: Rate limit chỉ áp cho request thật sự gọi ra YouTube
	if !s.limiter.Allow() {
		s.metrics.YoutubeRequest(OutcomeRateLimited)
		return nil, model.ErrRateLimited
	}

	// Step 4: Fetch + enrich
	result, err := s.fetch(ctx, req)
	if err != nil {
		s.metrics.YoutubeRequest(outcomeOf(err))
		return nil, err
	}
	s.metrics.YoutubeRequest(OutcomeSuccess)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			logger.Warn("youtube cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return result, nil
}

func (s *youtubeService) fetch(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	page, err := s.api.Search(ctx, youtube.SearchParams{
		Query:      req.Query,
		MaxResults: req.MaxResults,
		Order:      req.Order,
		PageToken:  req.PageToken,
		RegionCode: req.RegionCode,
	})
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(page.Items))
	channelIDs := make([]string, 0, len(page.Items))
	seenChannel := make(map[string]bool)
	for _, it := range page.Items {
		videoIDs = append(videoIDs, it.VideoID)
		if !seenChannel[it.ChannelID] {
			seenChannel[it.ChannelID] = true
			channelIDs = append(channelIDs, it.ChannelID)
		}
	}

	// videos.list và channels.list song song
	var (
		videos   map[string]youtube.VideoStats
		channels map[string]youtube.ChannelStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = s.api.Videos(gctx, videoIDs)
		return err
	})
	g.Go(func() error {
		var err error
		channels, err = s.api.Channels(gctx, channelIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]model.VideoRow, 0, len(page.Items))
	for _, it := range page.Items {
		v := videos[it.VideoID]
		rows = append(rows, model.VideoRow{
			VideoID:         it.VideoID,
			URL:             "https://www.youtube.com/watch?v=" + it.VideoID,
			Title:           it.Title,
			Description:     it.Description,
			ChannelID:       it.ChannelID,
			ChannelTitle:    it.ChannelTitle,
			PublishedAt:     it.PublishedAt,
			Thumbnail:       it.Thumbnail,
			ViewCount:       v.ViewCount,
			LikeCount:       v.LikeCount,
			CommentCount:    v.CommentCount,
			SubscriberCount: channels[it.ChannelID].SubscriberCount,
			DurationSeconds: v.DurationSeconds,
			Duration:        utils.FormatDuration(v.DurationSeconds),
			EngagementRate:  EngagementRate(v.ViewCount, v.LikeCount, v.CommentCount),
		})
	}

	return &model.SearchResult{
		Query:         req.Query,
		Items:         rows,
		NextPageToken: page.NextPageToken,
		TotalResults:  page.TotalResults,
		FetchedAt:     s.now(),
	}, nil
}

// EngagementRate = (likes + comments) / views * 100, làm tròn 2 chữ số; views = 0 thì 0
func EngagementRate(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(likes + comments).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(views)).
		Round(2)
	f, _ := pct.Float64()
	return f
}

// CacheKey băm các tham số đã normalize
func CacheKey(req model.SearchRequest) string {
	raw := fmt.Sprintf("%s|%d|%s|%s|%s", req.Query, req.MaxResults, req.Order, req.PageToken, req.RegionCode)
	sum := sha1.Sum([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, youtube.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, youtube.ErrQuotaExceeded), errors.Is(err, youtube.ErrKeyInvalid), errors.Is(err, youtube.ErrNotConfigured):
		return OutcomeUnavailable
	case errors.Is(err, youtube.ErrBadRequest):
		return OutcomeBadRequest
	default:
		return OutcomeError
	}
}
