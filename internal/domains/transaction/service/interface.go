package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/transaction/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.Filter) ([]*model.Transaction, int, error)

	// Summary totals every transaction dated in [from, to)
	Summary(ctx context.Context, from, to time.Time) (*model.SummaryResponse, error)
}
