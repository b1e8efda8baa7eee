package repository

import (
	"context"

	"github.com/google/uuid"

	"agency-erp/internal/domains/document/model"
)

type Repository interface {
	// Create cấp docNumber từ document_sequences và insert trong cùng một transaction
	Create(ctx context.Context, d *model.Document, prefix string) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Update(ctx context.Context, d *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Document, error)
	SetAttachment(ctx context.Context, id uuid.UUID, fileKey, fileName *string) error
}
