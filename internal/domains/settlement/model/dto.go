package model

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/shared/types"
)

// =====================================================
// COLLABORATOR SYNC
// =====================================================

// CollaboratorInput một influencer mong muốn gán vào project
type CollaboratorInput struct {
	InfluencerID      uuid.UUID   `json:"influencerId"`
	Fee               int64       `json:"fee"`
	PaymentStatus     *string     `json:"paymentStatus"`
	PaymentDueDate    *types.Date `json:"paymentDueDate"`
	PaymentDate       *types.Date `json:"paymentDate"`
	ShootingDate      *types.Date `json:"shootingDate"`
	DraftDeliveryDate *types.Date `json:"draftDeliveryDate"`
	UploadDate        *types.Date `json:"uploadDate"`
}

func (c CollaboratorInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.InfluencerID, validation.By(requiredUUID)),
		validation.Field(&c.Fee, validation.Min(int64(0))),
	)
}

// SyncCollaboratorsRequest PUT /projects/:id/collaborators
type SyncCollaboratorsRequest struct {
	Collaborators []CollaboratorInput `json:"collaborators"`
}

func (r SyncCollaboratorsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Collaborators,
			validation.NotNil,
			validation.By(uniqueInfluencers),
		),
	)
}

// ToSettlement chuyển input thành entity với status đã normalize
func (c CollaboratorInput) ToSettlement(projectID uuid.UUID) *Settlement {
	return &Settlement{
		ProjectID:         projectID,
		InfluencerID:      c.InfluencerID,
		Fee:               c.Fee,
		PaymentStatus:     NormalizeStatusPtr(c.PaymentStatus),
		PaymentDueDate:    c.PaymentDueDate.TimePtr(),
		PaymentDate:       c.PaymentDate.TimePtr(),
		ShootingDate:      c.ShootingDate.TimePtr(),
		DraftDeliveryDate: c.DraftDeliveryDate.TimePtr(),
		UploadDate:        c.UploadDate.TimePtr(),
	}
}

// SyncCollaboratorsResponse
type SyncCollaboratorsResponse struct {
	ProjectInfluencers []*SettlementDetail `json:"projectInfluencers"`
}

// =====================================================
// STATUS UPDATE
// =====================================================

// UpdateStatusRequest PATCH /settlements/:id/status.
// Mọi chuyển trạng thái đều hợp lệ (không ép pending -> in_progress -> completed).
type UpdateStatusRequest struct {
	PaymentStatus string      `json:"paymentStatus"`
	PaymentDate   *types.Date `json:"paymentDate"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentStatus, validation.Required),
	)
}

// =====================================================
// VALIDATION RULES
// =====================================================

func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}

func uniqueInfluencers(value interface{}) error {
	items, ok := value.([]CollaboratorInput)
	if !ok {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for i, item := range items {
		if item.InfluencerID == uuid.Nil {
			continue
		}
		if _, dup := seen[item.InfluencerID]; dup {
			return fmt.Errorf("influencerId %s appears more than once (index %d)", item.InfluencerID, i)
		}
		seen[item.InfluencerID] = struct{}{}
	}
	return nil
}
