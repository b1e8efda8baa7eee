package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"agency-erp/internal/domains/settlement/model"
)

type ServiceInterface interface {
	// SyncCollaborators reconciles the project's influencer assignments
	// with the desired list inside one transaction.
	SyncCollaborators(ctx context.Context, projectID uuid.UUID, req model.SyncCollaboratorsRequest) ([]*model.SettlementDetail, error)

	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.SettlementDetail, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.SettlementDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SettlementDetail, error)

	// UpdateStatus overwrites the payment status; any transition is allowed
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.SettlementDetail, error)

	GetSummary(ctx context.Context, filter model.ListFilter) (*model.SettlementSummary, error)
	ExportToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, error)
}
