package repository

import (
	"context"

	"github.com/google/uuid"

	"agency-erp/internal/domains/client/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	// Delete trả ErrClientHasDependents khi còn project/transaction tham chiếu
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Client, error)
}
