package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/youtube/model"
	"agency-erp/internal/infrastructure/youtube"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return false, errors.New("redis down")
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error { return nil }

func (m *memCache) DeletePattern(_ context.Context, _ string) error { return nil }

func (m *memCache) Ping(context.Context) error { return nil }

type fakeAPI struct {
	mu          sync.Mutex
	searchCalls int
	searchErr   error
	channelIDs  []string
}

func (f *fakeAPI) Search(_ context.Context, p youtube.SearchParams) (*youtube.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &youtube.SearchPage{
		NextPageToken: "next",
		TotalResults:  2,
		Items: []youtube.SearchItem{
			{VideoID: "v1", ChannelID: "UC1", Title: "첫 영상", ChannelTitle: "Camper"},
			{VideoID: "v2", ChannelID: "UC1", Title: "둘째 영상", ChannelTitle: "Camper"},
		},
	}, nil
}

func (f *fakeAPI) Videos(_ context.Context, ids []string) (map[string]youtube.VideoStats, error) {
	return map[string]youtube.VideoStats{
		"v1": {ViewCount: 1000, LikeCount: 40, CommentCount: 10, DurationSeconds: 3723},
		"v2": {ViewCount: 0, DurationSeconds: 45},
	}, nil
}

func (f *fakeAPI) Channels(_ context.Context, ids []string) (map[string]youtube.ChannelStats, error) {
	f.mu.Lock()
	f.channelIDs = ids
	f.mu.Unlock()
	return map[string]youtube.ChannelStats{"UC1": {SubscriberCount: 12000}}, nil
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 5.0, EngagementRate(1000, 40, 10))
	assert.Equal(t, 0.0, EngagementRate(0, 40, 10))
	assert.Equal(t, 3.33, EngagementRate(300, 10, 0))
}

func TestSearch_EnrichesAndCaches(t *testing.T) {
	api := &fakeAPI{}
	c := newMemCache()
	svc := NewYoutubeService(api, c, nil, Options{})
	ctx := context.Background()

	res, err := svc.Search(ctx, model.SearchRequest{Query: "  캠핑   브이로그 "})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.False(t, res.Cached)
	assert.Equal(t, "캠핑 브이로그", res.Query)

	first := res.Items[0]
	assert.Equal(t, "https://www.youtube.com/watch?v=v1", first.URL)
	assert.Equal(t, "1:02:03", first.Duration)
	assert.Equal(t, int64(12000), first.SubscriberCount)
	assert.Equal(t, 5.0, first.EngagementRate)
	assert.Equal(t, "0:45", res.Items[1].Duration)
	assert.Equal(t, []string{"UC1"}, api.channelIDs)

	// cùng query sau khi normalize → cache hit
	again, err := svc.Search(ctx, model.SearchRequest{Query: "캠핑 브이로그", MaxResults: model.DefaultMaxResults})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, 1, api.searchCalls)
}

func TestSearch_CacheFailureIsNotFatal(t *testing.T) {
	c := newMemCache()
	c.failGet = true
	svc := NewYoutubeService(&fakeAPI{}, c, nil, Options{})

	res, err := svc.Search(context.Background(), model.SearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestSearch_Errors(t *testing.T) {
	svc := NewYoutubeService(&fakeAPI{}, nil, nil, Options{})
	_, err := svc.Search(context.Background(), model.SearchRequest{})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.Search(context.Background(), model.SearchRequest{Query: "x", MaxResults: 51})
	assert.ErrorAs(t, err, &verrs)

	api := &fakeAPI{searchErr: youtube.ErrQuotaExceeded}
	_, err = NewYoutubeService(api, nil, nil, Options{}).Search(context.Background(), model.SearchRequest{Query: "x"})
	assert.ErrorIs(t, err, youtube.ErrQuotaExceeded)
}

func TestSearch_RateLimited(t *testing.T) {
	svc := NewYoutubeService(&fakeAPI{}, nil, nil, Options{RatePerSecond: 1, Burst: 1})
	ctx := context.Background()

	_, err := svc.Search(ctx, model.SearchRequest{Query: "a"})
	require.NoError(t, err)
	_, err = svc.Search(ctx, model.SearchRequest{Query: "b"})
	assert.ErrorIs(t, err, model.ErrRateLimited)
}

func TestCacheKey_StableAcrossNormalization(t *testing.T) {
	a := model.SearchRequest{Query: " a  b "}.Normalize()
	b := model.SearchRequest{Query: "a b", MaxResults: 25, Order: "relevance"}.Normalize()
	assert.Equal(t, CacheKey(a), CacheKey(b))

	c := model.SearchRequest{Query: "a b", Order: "date"}.Normalize()
	assert.NotEqual(t, CacheKey(a), CacheKey(c))
}

func TestBuildWorkbook(t *testing.T) {
	res := &model.SearchResult{Items: []model.VideoRow{
		{Title: "첫 영상", ChannelTitle: "Camper", ViewCount: 1000, EngagementRate: 5, Duration: "1:02:03", URL: "u"},
	}}
	f, err := BuildWorkbook(res)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(videoSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "첫 영상", v)
	v, err = f.GetCellValue(videoSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "1000", v)
}
