package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/domains/document/model"
)

// memRepo mô phỏng document_sequences theo (prefix, period)
type memRepo struct {
	rows      map[uuid.UUID]*model.Document
	sequences map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]*model.Document{}, sequences: map[string]int{}}
}

func (m *memRepo) Create(_ context.Context, d *model.Document, prefix string) error {
	period := model.Period(d.IssueDate)
	m.sequences[prefix+period]++
	d.DocNumber = model.FormatDocNumber(prefix, period, m.sequences[prefix+period])
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Document, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, d *model.Document) error {
	if _, ok := m.rows[d.ID]; !ok {
		return model.ErrDocumentNotFound
	}
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return model.ErrDocumentNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) List(_ context.Context, f model.Filter) ([]*model.Document, error) {
	out := make([]*model.Document, 0)
	for _, d := range m.rows {
		if f.Type != nil && d.Type != *f.Type {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memRepo) SetAttachment(_ context.Context, id uuid.UUID, key, name *string) error {
	d, ok := m.rows[id]
	if !ok {
		return model.ErrDocumentNotFound
	}
	d.FileKey, d.FileName = key, name
	return nil
}

type memFiles struct {
	objects map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}}
}

func (f *memFiles) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *memFiles) PresignedURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://files.local/" + key, nil
}

func (f *memFiles) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *memFiles) DeleteByPrefix(_ context.Context, prefix string) error {
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			delete(f.objects, k)
		}
	}
	return nil
}

func newTestService(repo *memRepo, files FileStore) *documentService {
	svc := NewDocumentService(repo, files, time.UTC).(*documentService)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreate_AllocatesSequentialNumbers(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		d, err := svc.Create(ctx, model.CreateDocumentRequest{Type: "INVOICE", Title: fmt.Sprintf("청구서 %d", i)})
		require.NoError(t, err)
		numbers = append(numbers, d.DocNumber)
	}
	quote, err := svc.Create(ctx, model.CreateDocumentRequest{Type: "QUOTE", Title: "견적서"})
	require.NoError(t, err)

	assert.Equal(t, []string{"INV-202610-001", "INV-202610-002", "INV-202610-003"}, numbers)
	assert.Equal(t, "QT-202610-001", quote.DocNumber)
	assert.Equal(t, model.StatusDraft, quote.Status)
}

func TestCreate_InvalidRequest(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), model.CreateDocumentRequest{Type: "RECEIPT", Title: "x"})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	title := "new"

	_, err := svc.Update(context.Background(), uuid.New(), model.UpdateDocumentRequest{Title: &title})
	var de *model.DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, model.ErrCodeDocumentNotFound, de.Code)
}

func TestAttachment_Lifecycle(t *testing.T) {
	repo := newMemRepo()
	files := newMemFiles()
	svc := newTestService(repo, files)
	ctx := context.Background()

	d, err := svc.Create(ctx, model.CreateDocumentRequest{Type: "CONTRACT", Title: "계약서"})
	require.NoError(t, err)

	_, err = svc.GetAttachment(ctx, d.ID)
	assert.ErrorIs(t, err, model.ErrNoAttachment)

	body := []byte("%PDF-1.7")
	updated, err := svc.UploadAttachment(ctx, d.ID, AttachmentInput{
		FileName:    `C:\Users\kim\contract.pdf`,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Reader:      bytes.NewReader(body),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FileName)
	assert.Equal(t, "contract.pdf", *updated.FileName)
	assert.Contains(t, files.objects, "documents/"+d.ID.String()+"/contract.pdf")

	att, err := svc.GetAttachment(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://files.local/documents/"+d.ID.String()+"/contract.pdf", att.URL)

	// Replace with a differently named file removes the old object
	_, err = svc.UploadAttachment(ctx, d.ID, AttachmentInput{
		FileName: "contract-v2.pdf", Size: int64(len(body)), Reader: bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.Len(t, files.objects, 1)

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.Empty(t, files.objects)
}

func TestAttachment_Rejections(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	noStorage := newTestService(repo, nil)
	d, err := noStorage.Create(ctx, model.CreateDocumentRequest{Type: "QUOTE", Title: "견적서"})
	require.NoError(t, err)

	_, err = noStorage.UploadAttachment(ctx, d.ID, AttachmentInput{FileName: "a.pdf", Size: 1, Reader: strings.NewReader("a")})
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)

	svc := newTestService(repo, newMemFiles())
	_, err = svc.UploadAttachment(ctx, d.ID, AttachmentInput{FileName: "big.pdf", Size: MaxAttachmentSize + 1, Reader: strings.NewReader("")})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "a.pdf", sanitizeFileName("../../etc/a.pdf"))
	assert.Equal(t, "b.xlsx", sanitizeFileName(`dir\b.xlsx`))
	assert.Equal(t, "attachment", sanitizeFileName("  "))
}
