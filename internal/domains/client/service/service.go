package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/client/model"
	"agency-erp/internal/domains/client/repository"
	"agency-erp/pkg/logger"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateClientRequest) (*model.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateClientRequest) (*model.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Client, error)
}

type clientService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewClientService(repo repository.Repository) ServiceInterface {
	return &clientService{repo: repo, now: time.Now}
}

func (s *clientService) Create(ctx context.Context, req model.CreateClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClient(s.now())
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("client created", map[string]interface{}{"client_id": c.ID.String()})
	return c, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return c, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req model.UpdateClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	req.Apply(c)
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapRepoError(err)
	}
	return c, nil
}

// Delete không cascade: client còn project/transaction thì từ chối
func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrClientHasDependents) {
			logger.Warn("client delete blocked by dependents", map[string]interface{}{"client_id": id.String()})
		}
		return mapRepoError(err)
	}
	return nil
}

func (s *clientService) List(ctx context.Context, f model.Filter) ([]*model.Client, error) {
	return s.repo.List(ctx, f)
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrClientNotFound):
		return model.NewClientNotFoundError()
	case errors.Is(err, model.ErrClientHasDependents):
		return model.NewClientHasDependentsError()
	default:
		return err
	}
}
