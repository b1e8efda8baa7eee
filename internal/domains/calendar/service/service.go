package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agency-erp/internal/domains/calendar/model"
	"agency-erp/internal/domains/calendar/repository"
	projectmodel "agency-erp/internal/domains/project/model"
	reportservice "agency-erp/internal/domains/report/service"
	stlmodel "agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/infrastructure/google"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/logger"
)

const (
	// cửa sổ rebuild tính từ hôm nay
	rebuildLookBack  = 30
	rebuildLookAhead = 365

	syncBatchSize   = 200
	syncConcurrency = 4
)

// DeadlineSource là phần project repository mà rebuild cần
type DeadlineSource interface {
	ListDeadlines(ctx context.Context, from, to time.Time) ([]projectmodel.DeadlineMarker, error)
}

// DueSource là phần settlement repository mà rebuild cần
type DueSource interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*stlmodel.SettlementDetail, error)
}

// RemoteCalendar là Google Calendar client
type RemoteCalendar interface {
	InsertEvent(ctx context.Context, ev google.Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, ev google.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

type ServiceInterface interface {
	List(ctx context.Context, from, to time.Time) ([]*model.Event, error)
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Rebuild(ctx context.Context) (*model.RebuildResult, error)
	Sync(ctx context.Context) (*model.SyncResult, error)
}

type calendarService struct {
	repo      repository.Repository
	deadlines DeadlineSource
	dues      DueSource
	remote    RemoteCalendar
	loc       *time.Location
	now       func() time.Time
}

// NewCalendarService; remote nil khi chưa cấu hình Google, lúc đó Sync trả lỗi
func NewCalendarService(
	repo repository.Repository,
	deadlines DeadlineSource,
	dues DueSource,
	remote RemoteCalendar,
	loc *time.Location,
) ServiceInterface {
	if loc == nil {
		loc = time.UTC
	}
	return &calendarService{
		repo:      repo,
		deadlines: deadlines,
		dues:      dues,
		remote:    remote,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *calendarService) List(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	return s.repo.List(ctx, from, to)
}

func (s *calendarService) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e := req.ToEvent(s.now())
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete chỉ cho CUSTOM; marker sinh tự động do Rebuild quản lý
func (s *calendarService) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if e.Type.Generated() {
		return model.NewGeneratedReadOnlyError()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.deleteRemote(ctx, []*model.Event{e})
	return nil
}

// Rebuild sinh lại PROJECT_DEADLINE và SETTLEMENT_DUE trong cửa sổ
// [hôm nay - 30 ngày, hôm nay + 365 ngày)
func (s *calendarService) Rebuild(ctx context.Context) (*model.RebuildResult, error) {
	today := reportservice.StartOfDay(s.now().In(s.loc))
	from := today.AddDate(0, 0, -rebuildLookBack)
	to := today.AddDate(0, 0, rebuildLookAhead)

	// Step 1: Load sources concurrently
	var (
		deadlines []projectmodel.DeadlineMarker
		dues      []*stlmodel.SettlementDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deadlines, err = s.deadlines.ListDeadlines(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		dues, err = s.dues.ListDueBetween(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load marker sources: %w", err)
	}

	// Step 2: Build markers
	now := s.now()
	markers := make([]*model.Event, 0, len(deadlines)+len(dues))
	for _, d := range deadlines {
		markers = append(markers, DeadlineMarker(d, now))
	}
	dueCount := 0
	for _, d := range dues {
		if m := DueMarker(d, now); m != nil {
			markers = append(markers, m)
			dueCount++
		}
	}

	// Step 3: Persist
	upserted, removed, err := s.repo.ReplaceMarkers(ctx, from, to, markers)
	if err != nil {
		return nil, err
	}
	s.deleteRemote(ctx, removed)

	result := &model.RebuildResult{
		From:             from,
		To:               to,
		ProjectDeadlines: len(deadlines),
		SettlementDues:   dueCount,
		Upserted:         upserted,
		Removed:          len(removed),
	}
	logger.Info("calendar markers rebuilt", map[string]interface{}{
		"deadlines": result.ProjectDeadlines,
		"dues":      result.SettlementDues,
		"removed":   result.Removed,
	})
	return result, nil
}

// DeadlineMarker: marker cho deadline của project
func DeadlineMarker(d projectmodel.DeadlineMarker, now time.Time) *model.Event {
	projectID := d.ProjectID
	return &model.Event{
		ID:        uuid.New(),
		Type:      model.TypeProjectDeadline,
		Title:     fmt.Sprintf("[마감] %s (%s)", d.Name, d.ClientName),
		Date:      d.Deadline,
		SourceID:  &projectID,
		ProjectID: &projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DueMarker: marker cho hạn thanh toán settlement; đã completed thì nil
func DueMarker(d *stlmodel.SettlementDetail, now time.Time) *model.Event {
	if d.PaymentDueDate == nil || d.PaymentStatus.IsCompleted() {
		return nil
	}
	settlementID := d.ID
	projectID := d.ProjectID
	desc := fmt.Sprintf("%s · %s", d.PaymentStatus.Label(), utils.FormatCurrency(d.Fee))
	return &model.Event{
		ID:          uuid.New(),
		Type:        model.TypeSettlementDue,
		Title:       fmt.Sprintf("[정산] %s · %s", d.Influencer.Name, d.Project.Name),
		Description: &desc,
		Date:        *d.PaymentDueDate,
		SourceID:    &settlementID,
		ProjectID:   &projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Sync đẩy các event chưa sync lên Google Calendar, tối đa 4 request song song.
// Lỗi từng event chỉ được đếm, không dừng cả batch.
func (s *calendarService) Sync(ctx context.Context) (*model.SyncResult, error) {
	if s.remote == nil {
		return nil, model.NewSyncNotConfiguredError()
	}

	events, err := s.repo.ListUnsynced(ctx, syncBatchSize)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		result  model.SyncResult
		lastErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)

	for _, e := range events {
		e := e
		g.Go(func() error {
			err := s.syncOne(gctx, e)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				lastErr = err
				logger.ErrorWithFields("calendar event sync failed", err, map[string]interface{}{
					"event_id": e.ID.String(),
				})
				return nil
			}
			result.Synced++
			return nil
		})
	}
	_ = g.Wait()

	// Không event nào qua được vì timeout thì báo timeout cho caller
	if result.Synced == 0 && errors.Is(lastErr, google.ErrGoogleTimeout) {
		return nil, model.NewSyncTimeoutError(lastErr)
	}

	logger.Info("calendar sync completed", map[string]interface{}{
		"synced": result.Synced,
		"failed": result.Failed,
	})
	return &result, nil
}

func (s *calendarService) syncOne(ctx context.Context, e *model.Event) error {
	ev := google.Event{Summary: e.Title, Description: utils.DerefString(e.Description), Date: e.Date}

	externalID := utils.DerefString(e.ExternalID)
	if externalID != "" {
		err := s.remote.UpdateEvent(ctx, externalID, ev)
		var apiErr *google.APIError
		switch {
		case err == nil:
		case errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusGone):
			// bị xoá phía Google: tạo lại
			externalID = ""
		default:
			return err
		}
	}

	if externalID == "" {
		id, err := s.remote.InsertEvent(ctx, ev)
		if err != nil {
			return err
		}
		externalID = id
	}

	return s.repo.MarkSynced(ctx, e.ID, externalID, s.now())
}

// deleteRemote best-effort: lỗi chỉ log, event đã xoá ở DB
func (s *calendarService) deleteRemote(ctx context.Context, events []*model.Event) {
	if s.remote == nil {
		return
	}
	for _, e := range events {
		if e.ExternalID == nil || *e.ExternalID == "" {
			continue
		}
		if err := s.remote.DeleteEvent(ctx, *e.ExternalID); err != nil {
			logger.ErrorWithFields("failed to delete google calendar event", err, map[string]interface{}{
				"external_id": *e.ExternalID,
			})
		}
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, model.ErrEventNotFound) {
		return model.NewEventNotFoundError()
	}
	return err
}
