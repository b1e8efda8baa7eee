package job

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"agency-erp/internal/domains/calendar/model"
	"agency-erp/internal/domains/calendar/service"
	"agency-erp/pkg/logger"
)

// SyncHandler xử lý task calendar:sync_google: rebuild marker rồi đẩy lên Google
type SyncHandler struct {
	service service.ServiceInterface
}

func NewSyncHandler(svc service.ServiceInterface) *SyncHandler {
	return &SyncHandler{service: svc}
}

func (h *SyncHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	rebuilt, err := h.service.Rebuild(ctx)
	if err != nil {
		logger.Error("Calendar rebuild failed", err)
		return err
	}

	synced, err := h.service.Sync(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSyncNotConfigured) {
			log.Info().Msg("Google Calendar not configured, skip sync")
			return nil
		}
		logger.Error("Calendar sync failed", err)
		return err
	}

	log.Info().
		Int("upserted", rebuilt.Upserted).
		Int("removed", rebuilt.Removed).
		Int("synced", synced.Synced).
		Int("failed", synced.Failed).
		Msg("Calendar sync job completed")
	return nil
}
