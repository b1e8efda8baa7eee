package repository

import (
	"context"

	"github.com/google/uuid"

	"agency-erp/internal/domains/influencer/model"
)

type Repository interface {
	Create(ctx context.Context, inf *model.Influencer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Influencer, error)
	Update(ctx context.Context, inf *model.Influencer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Influencer, error)
}
