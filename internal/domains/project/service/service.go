package service

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/project/model"
	"agency-erp/internal/domains/project/repository"
	settlementModel "agency-erp/internal/domains/settlement/model"
	"agency-erp/pkg/cache"
	"agency-erp/pkg/logger"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Project, error)
}

type projectService struct {
	repo  repository.Repository
	cache cache.Cache // nil = không cache
	now   func() time.Time
}

func NewProjectService(repo repository.Repository, c cache.Cache) ServiceInterface {
	return &projectService{repo: repo, cache: c, now: time.Now}
}

func (s *projectService) Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToProject(s.now())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, mapRepoError(err)
	}

	logger.Info("project created", map[string]interface{}{
		"project_id": p.ID.String(),
		"client_id":  p.ClientID.String(),
	})
	// re-read để có clientName
	return s.Get(ctx, p.ID)
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	req.Apply(p)
	if p.StartDate != nil && p.Deadline != nil && p.Deadline.Before(*p.StartDate) {
		return nil, validation.Errors{"deadline": errors.New("must not be before startDate")}
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidateSettlementSummary(ctx)
	return s.Get(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.invalidateSettlementSummary(ctx)
	logger.Info("project deleted", map[string]interface{}{"project_id": id.String()})
	return nil
}

func (s *projectService) List(ctx context.Context, f model.Filter) ([]*model.Project, error) {
	return s.repo.List(ctx, f)
}

// invalidateSettlementSummary: summary join tên project và cascade xoá settlement
func (s *projectService) invalidateSettlementSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, settlementModel.SummaryCachePrefix+"*"); err != nil {
		logger.Warn("settlement summary cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrProjectNotFound):
		return model.NewProjectNotFoundError()
	case errors.Is(err, model.ErrClientNotFound):
		return model.NewClientNotFoundError()
	case errors.Is(err, model.ErrProjectHasDependents):
		return model.NewProjectHasDependentsError()
	default:
		return err
	}
}
