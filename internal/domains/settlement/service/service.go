package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/settlement/repository"
	"agency-erp/pkg/cache"
	"agency-erp/pkg/logger"
)

const summaryCacheTTL = 60 * time.Second

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type settlementService struct {
	repo  repository.Repository
	cache cache.Cache // nil = không cache
	now   func() time.Time
}

func NewSettlementService(repo repository.Repository, c cache.Cache) ServiceInterface {
	return &settlementService{
		repo:  repo,
		cache: c,
		now:   time.Now,
	}
}

// =====================================================
// QUERIES
// =====================================================

func (s *settlementService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.SettlementDetail, error) {
	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewProjectNotFoundError()
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *settlementService) List(ctx context.Context, filter model.ListFilter) ([]*model.SettlementDetail, error) {
	return s.repo.List(ctx, filter)
}

func (s *settlementService) GetByID(ctx context.Context, id uuid.UUID) (*model.SettlementDetail, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSettlementNotFound) {
			return nil, model.NewSettlementNotFoundError()
		}
		return nil, err
	}
	return d, nil
}

// GetSummary tổng hợp theo status / influencer / project, cache ngắn hạn trên Redis
func (s *settlementService) GetSummary(ctx context.Context, filter model.ListFilter) (*model.SettlementSummary, error) {
	key := summaryCacheKey(filter)

	// Step 1: Try cache
	if s.cache != nil {
		var cached model.SettlementSummary
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("settlement summary cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if found {
			return &cached, nil
		}
	}

	// Step 2: Load rows + lookup tables
	rows, err := s.repo.ListRaw(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	dir, err := s.repo.LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}

	// Step 3: Aggregate
	summary := Summarize(rows, dir)

	// Step 4: Store (best effort)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, summaryCacheTTL); err != nil {
			logger.Warn("settlement summary cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	return summary, nil
}

// =====================================================
// STATUS UPDATE
// =====================================================

func (s *settlementService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.SettlementDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := model.NormalizeStatus(req.PaymentStatus)
	paymentDate := req.PaymentDate.TimePtr()
	// Chuyển sang completed mà không có ngày thanh toán -> lấy hôm nay
	if status.IsCompleted() && paymentDate == nil {
		today := s.now()
		paymentDate = &today
	}

	if err := s.repo.UpdateStatus(ctx, id, status, paymentDate); err != nil {
		if errors.Is(err, model.ErrSettlementNotFound) {
			return nil, model.NewSettlementNotFoundError()
		}
		return nil, err
	}
	s.invalidateSummary(ctx)

	logger.Info("settlement status updated", map[string]interface{}{
		"settlement_id": id.String(),
		"status":        string(status),
	})

	return s.GetByID(ctx, id)
}

// =====================================================
// HELPERS
// =====================================================

func (s *settlementService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, model.SummaryCachePrefix+"*"); err != nil {
		logger.Warn("settlement summary cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func summaryCacheKey(f model.ListFilter) string {
	data := fmt.Sprintf("p=%s|i=%s|s=%s|from=%s|to=%s",
		uuidPtrString(f.ProjectID),
		uuidPtrString(f.InfluencerID),
		statusPtrString(f.Status),
		timePtrString(f.DueFrom),
		timePtrString(f.DueTo),
	)
	hash := md5.Sum([]byte(data))
	return fmt.Sprintf("%s%x", model.SummaryCachePrefix, hash)
}

func uuidPtrString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func statusPtrString(s *model.PaymentStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func timePtrString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
