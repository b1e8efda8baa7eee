package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agency-erp/internal/domains/calendar/model"
)

type Repository interface {
	// List trả về events có date trong [from, to)
	List(ctx context.Context, from, to time.Time) ([]*model.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceMarkers upsert các marker sinh tự động theo (type, source_id) và xoá
	// marker cũ trong [from, to) không còn nguồn. Trả về các event đã xoá để
	// dọn phía Google.
	ReplaceMarkers(ctx context.Context, from, to time.Time, markers []*model.Event) (upserted int, removed []*model.Event, err error)

	// ListUnsynced: event chưa sync hoặc đã đổi nội dung sau lần sync cuối
	ListUnsynced(ctx context.Context, limit int) ([]*model.Event, error)
	MarkSynced(ctx context.Context, id uuid.UUID, externalID string, at time.Time) error
}
