package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/transaction/model"
	"agency-erp/internal/domains/transaction/repository"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type transactionService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewTransactionService(repo repository.Repository) ServiceInterface {
	return &transactionService{repo: repo, now: time.Now}
}

func (s *transactionService) Create(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToTransaction(s.now())
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, mapRepoError(err)
	}

	logger.Info("transaction created", map[string]interface{}{
		"transaction_id": t.ID.String(),
		"type":           string(t.Type),
		"amount":         t.Amount,
	})
	return t, nil
}

func (s *transactionService) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return t, nil
}

// Update sửa tại chỗ (không soft-delete, không versioning)
func (s *transactionService) Update(ctx context.Context, id uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	req.Apply(t)
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, mapRepoError(err)
	}
	return t, nil
}

func (s *transactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *transactionService) List(ctx context.Context, filter model.Filter) ([]*model.Transaction, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	return s.repo.List(ctx, filter)
}

func (s *transactionService) Summary(ctx context.Context, from, to time.Time) (*model.SummaryResponse, error) {
	items, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &model.SummaryResponse{
		From:       utils.FormatDate(from),
		To:         utils.FormatDate(to),
		ByCategory: make(map[string]int64),
	}
	for _, t := range items {
		resp.Totals.Add(t)
		if t.PaymentStatus != model.PaymentCancelled {
			resp.ByCategory[t.Category] += t.SignedAmount()
		}
	}
	return resp, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrTransactionNotFound):
		return model.NewTransactionNotFoundError()
	case errors.Is(err, model.ErrInvalidReference):
		return model.NewInvalidReferenceError()
	default:
		return err
	}
}
