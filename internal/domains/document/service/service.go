package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/domains/document/model"
	"agency-erp/internal/domains/document/repository"
	"agency-erp/pkg/logger"
)

// MaxAttachmentSize giới hạn file đính kèm (10MB)
const MaxAttachmentSize = 10 << 20

// FileStore là phần object storage mà documents cần (MinIO)
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key, fileName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateDocumentRequest) (*model.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.Filter) ([]*model.Document, error)
	UploadAttachment(ctx context.Context, id uuid.UUID, file AttachmentInput) (*model.Document, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
}

// AttachmentInput là file multipart đã mở
type AttachmentInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type documentService struct {
	repo  repository.Repository
	files FileStore
	loc   *time.Location
	now   func() time.Time
}

// NewDocumentService; files có thể nil khi MinIO không khả dụng,
// lúc đó chỉ các thao tác attachment bị từ chối
func NewDocumentService(repo repository.Repository, files FileStore, loc *time.Location) ServiceInterface {
	if loc == nil {
		loc = time.UTC
	}
	return &documentService{repo: repo, files: files, loc: loc, now: time.Now}
}

func (s *documentService) Create(ctx context.Context, req model.CreateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prefix, ok := model.DocumentType(req.Type).Prefix()
	if !ok {
		return nil, validation.Errors{"type": errors.New("unsupported document type")}
	}

	// issueDate mặc định theo ngày ở timezone của công ty
	d := req.ToDocument(s.now().In(s.loc))
	if err := s.repo.Create(ctx, d, prefix); err != nil {
		return nil, mapRepoError(err)
	}

	logger.Info("document created", map[string]interface{}{
		"document_id": d.ID.String(),
		"doc_number":  d.DocNumber,
	})
	return s.Get(ctx, d.ID)
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return d, nil
}

func (s *documentService) Update(ctx context.Context, id uuid.UUID, req model.UpdateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	req.Apply(d)
	if d.DueDate != nil && d.DueDate.Before(d.IssueDate) {
		return nil, validation.Errors{"dueDate": errors.New("must not be before issueDate")}
	}
	d.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, mapRepoError(err)
	}
	return s.Get(ctx, id)
}

// Delete xóa record trước, file trên MinIO dọn sau (lỗi storage chỉ log)
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	if d.HasAttachment() && s.files != nil {
		if err := s.files.DeleteByPrefix(ctx, attachmentPrefix(id)); err != nil {
			logger.ErrorWithFields("failed to clean up document files", err, map[string]interface{}{
				"document_id": id.String(),
			})
		}
	}
	return nil
}

func (s *documentService) List(ctx context.Context, f model.Filter) ([]*model.Document, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f)
}

func (s *documentService) UploadAttachment(ctx context.Context, id uuid.UUID, file AttachmentInput) (*model.Document, error) {
	if s.files == nil {
		return nil, model.NewStorageUnavailableError()
	}
	if file.Size <= 0 || file.Size > MaxAttachmentSize {
		return nil, validation.Errors{"file": fmt.Errorf("size must be between 1 byte and %d bytes", MaxAttachmentSize)}
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	name := sanitizeFileName(file.FileName)
	key := attachmentPrefix(id) + name
	if err := s.files.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	if err := s.repo.SetAttachment(ctx, id, &key, &name); err != nil {
		// Rollback file vừa upload
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			logger.Error("failed to remove orphan attachment", delErr)
		}
		return nil, mapRepoError(err)
	}

	// File cũ khác tên thì xóa
	if d.HasAttachment() && *d.FileKey != key {
		if err := s.files.Delete(ctx, *d.FileKey); err != nil {
			logger.Error("failed to remove previous attachment", err)
		}
	}

	return s.Get(ctx, id)
}

func (s *documentService) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	if s.files == nil {
		return nil, model.NewStorageUnavailableError()
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !d.HasAttachment() {
		return nil, model.NewNoAttachmentError()
	}

	name := ""
	if d.FileName != nil {
		name = *d.FileName
	}
	u, err := s.files.PresignedURL(ctx, *d.FileKey, name, 0)
	if err != nil {
		return nil, fmt.Errorf("presign attachment: %w", err)
	}
	return &model.Attachment{FileName: name, URL: u}, nil
}

func attachmentPrefix(id uuid.UUID) string {
	return "documents/" + id.String() + "/"
}

// sanitizeFileName giữ lại phần tên file, bỏ path do client gửi
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "attachment"
	}
	return name
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, model.ErrDocumentNotFound):
		return model.NewDocumentNotFoundError()
	case errors.Is(err, model.ErrInvalidReference):
		return model.NewInvalidReferenceError()
	default:
		return err
	}
}
