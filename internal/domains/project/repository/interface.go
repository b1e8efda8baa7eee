package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/project/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Project, error)

	// ListDeadlines: project chưa đóng có deadline trong [from, to)
	ListDeadlines(ctx context.Context, from, to time.Time) ([]model.DeadlineMarker, error)
}
