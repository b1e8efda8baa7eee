package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/settlement/repository"
	"agency-erp/pkg/logger"
)

// SyncCollaborators đưa danh sách influencer của project về đúng req.Collaborators.
//
// Influencer đang có mà không còn trong danh sách bị xoá, mọi entry còn lại
// được upsert theo (project_id, influencer_id). Tất cả chạy trong một
// transaction: lỗi ở bất kỳ bước nào thì không dòng nào thay đổi.
func (s *settlementService) SyncCollaborators(
	ctx context.Context,
	projectID uuid.UUID,
	req model.SyncCollaboratorsRequest,
) ([]*model.SettlementDetail, error) {
	// Step 1: Validate (duplicate influencerId bị chặn ở đây)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Normalize status
	desired := make([]*model.Settlement, 0, len(req.Collaborators))
	keep := make(map[uuid.UUID]struct{}, len(req.Collaborators))
	for _, c := range req.Collaborators {
		desired = append(desired, c.ToSettlement(projectID))
		keep[c.InfluencerID] = struct{}{}
	}

	// Step 3: Project phải tồn tại
	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewProjectNotFoundError()
	}

	// Step 4: Delete-by-difference + upsert, all or nothing
	var removed int
	err = s.repo.WithTransaction(ctx, func(tx repository.TxRepository) error {
		removed = 0
		existing, err := tx.FindByProject(ctx, projectID)
		if err != nil {
			return err
		}

		for _, row := range existing {
			if _, ok := keep[row.InfluencerID]; ok {
				continue
			}
			if err := tx.Delete(ctx, projectID, row.InfluencerID); err != nil {
				return err
			}
			removed++
		}

		for _, row := range desired {
			if err := tx.Upsert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.ErrorWithFields("collaborator sync rolled back", err, map[string]interface{}{
			"project_id": projectID.String(),
			"desired":    len(desired),
		})
		if errors.Is(err, model.ErrInfluencerNotFound) {
			return nil, model.NewInfluencerNotFoundError()
		}
		return nil, model.NewSyncFailedError(err)
	}

	s.invalidateSummary(ctx)

	logger.Info("collaborators synced", map[string]interface{}{
		"project_id": projectID.String(),
		"upserted":   len(desired),
		"removed":    removed,
	})

	// Step 5: Đọc lại kèm thông tin influencer
	return s.repo.ListByProject(ctx, projectID)
}
