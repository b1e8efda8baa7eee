package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/transaction/model"
)

type Repository interface {
	Create(ctx context.Context, t *model.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	Update(ctx context.Context, t *model.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page plus the total count for the filter
	List(ctx context.Context, filter model.Filter) ([]*model.Transaction, int, error)

	// ListBetween returns every transaction dated in [from, to), oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error)
}
