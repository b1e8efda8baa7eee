package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
)

// =====================================================
// SETTLEMENT REPOSITORY INTERFACE
// =====================================================

type Repository interface {
	// ProjectExists checks the project referenced by a sync request
	ProjectExists(ctx context.Context, projectID uuid.UUID) (bool, error)

	// ListByProject returns settlements of one project joined with influencer/project info
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.SettlementDetail, error)

	// List returns settlements matching filter (joined)
	List(ctx context.Context, filter model.ListFilter) ([]*model.SettlementDetail, error)

	// ListRaw returns bare rows for aggregation, without joins
	ListRaw(ctx context.Context, filter model.ListFilter) ([]*model.Settlement, error)

	// ListDueBetween returns settlements whose payment_due_date falls in [from, to)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.SettlementDetail, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.SettlementDetail, error)

	// UpdateStatus overwrites status (no transition rule) and payment date
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, paymentDate *time.Time) error

	// LoadDirectory loads influencer + project lookup tables for the aggregator
	LoadDirectory(ctx context.Context) (model.Directory, error)

	// WithTransaction runs fn atomically: every write made through tx commits,
	// or none does.
	WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository là các thao tác được phép bên trong transaction
type TxRepository interface {
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Settlement, error)

	// Upsert inserts or updates the (project_id, influencer_id) row
	Upsert(ctx context.Context, s *model.Settlement) error

	Delete(ctx context.Context, projectID, influencerID uuid.UUID) error
}
