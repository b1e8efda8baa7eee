package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/influencer/model"
	"agency-erp/internal/domains/influencer/repository"
	settlementModel "agency-erp/internal/domains/settlement/model"
	"agency-erp/pkg/cache"
	"agency-erp/pkg/logger"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateInfluencerRequest) (*model.Influencer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Influencer, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateInfluencerRequest) (*model.Influencer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Influencer, error)
}

type influencerService struct {
	repo  repository.Repository
	cache cache.Cache // nil = không cache
	now   func() time.Time
}

func NewInfluencerService(repo repository.Repository, c cache.Cache) ServiceInterface {
	return &influencerService{repo: repo, cache: c, now: time.Now}
}

func (s *influencerService) Create(ctx context.Context, req model.CreateInfluencerRequest) (*model.Influencer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inf := req.ToInfluencer(s.now())
	if err := s.repo.Create(ctx, inf); err != nil {
		return nil, err
	}

	logger.Info("influencer created", map[string]interface{}{
		"influencer_id": inf.ID.String(),
		"platforms":     strings.Join(inf.Platforms, ","),
	})
	return inf, nil
}

func (s *influencerService) Get(ctx context.Context, id uuid.UUID) (*model.Influencer, error) {
	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return inf, nil
}

func (s *influencerService) Update(ctx context.Context, id uuid.UUID, req model.UpdateInfluencerRequest) (*model.Influencer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	req.Apply(inf)
	inf.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, inf); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidateSettlementSummary(ctx)
	return inf, nil
}

func (s *influencerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.invalidateSettlementSummary(ctx)
	return nil
}

// List: platform filter so khớp lowercase như lúc ghi
func (s *influencerService) List(ctx context.Context, f model.Filter) ([]*model.Influencer, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Platform = strings.ToLower(strings.TrimSpace(f.Platform))
	return s.repo.List(ctx, f)
}

// invalidateSettlementSummary: summary join tên influencer và cascade xoá settlement
func (s *influencerService) invalidateSettlementSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, settlementModel.SummaryCachePrefix+"*"); err != nil {
		logger.Warn("settlement summary cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrInfluencerNotFound):
		return model.NewInfluencerNotFoundError()
	case errors.Is(err, model.ErrInfluencerHasDependents):
		return model.NewInfluencerHasDependentsError()
	default:
		return err
	}
}
