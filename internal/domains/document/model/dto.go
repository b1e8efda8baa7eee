package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/shared/types"
)

// CreateDocumentRequest POST /api/v1/documents
// docNumber do server cấp, client không gửi lên
type CreateDocumentRequest struct {
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Amount    int64       `json:"amount"`
	Status    string      `json:"status"`
	IssueDate types.Date  `json:"issueDate"`
	DueDate   *types.Date `json:"dueDate"`
	ClientID  *uuid.UUID  `json:"clientId"`
	ProjectID *uuid.UUID  `json:"projectId"`
	Memo      *string     `json:"memo"`
}

func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(
			string(TypeQuote), string(TypeInvoice), string(TypeContract),
		)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Amount, validation.Min(int64(0))),
		validation.Field(&r.Status, validation.In(statusValues()...)),
		validation.Field(&r.DueDate, validation.By(notBefore(r.IssueDate))),
		validation.Field(&r.Memo, validation.NilOrNotEmpty, validation.Length(0, 1000)),
	)
}

// ToDocument; issueDate trống thì lấy ngày hôm nay, status mặc định DRAFT
func (r CreateDocumentRequest) ToDocument(now time.Time) *Document {
	status := DocumentStatus(r.Status)
	if status == "" {
		status = StatusDraft
	}
	issue := r.IssueDate.Time
	if issue.IsZero() {
		issue = types.NewDate(now).Time
	}
	return &Document{
		ID:        uuid.New(),
		Type:      DocumentType(r.Type),
		Title:     strings.TrimSpace(r.Title),
		Amount:    r.Amount,
		Status:    status,
		IssueDate: issue,
		DueDate:   datePtr(r.DueDate),
		ClientID:  r.ClientID,
		ProjectID: r.ProjectID,
		Memo:      r.Memo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateDocumentRequest: type và docNumber không đổi được sau khi tạo
type UpdateDocumentRequest struct {
	Title     *string     `json:"title"`
	Amount    *int64      `json:"amount"`
	Status    *string     `json:"status"`
	DueDate   *types.Date `json:"dueDate"`
	ClientID  *uuid.UUID  `json:"clientId"`
	ProjectID *uuid.UUID  `json:"projectId"`
	Memo      *string     `json:"memo"`
}

func (r UpdateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Amount, validation.Min(int64(0))),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statusValues()...)),
	)
}

func (r UpdateDocumentRequest) Apply(d *Document) {
	if r.Title != nil {
		d.Title = strings.TrimSpace(*r.Title)
	}
	if r.Amount != nil {
		d.Amount = *r.Amount
	}
	if r.Status != nil {
		d.Status = DocumentStatus(*r.Status)
	}
	if r.DueDate != nil {
		d.DueDate = datePtr(r.DueDate)
	}
	if r.ClientID != nil {
		d.ClientID = r.ClientID
	}
	if r.ProjectID != nil {
		d.ProjectID = r.ProjectID
	}
	if r.Memo != nil {
		d.Memo = r.Memo
	}
}

func statusValues() []interface{} {
	out := make([]interface{}, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		out = append(out, string(s))
	}
	return out
}

func datePtr(d *types.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func notBefore(issue types.Date) validation.RuleFunc {
	return func(value interface{}) error {
		due, ok := value.(*types.Date)
		if !ok || due == nil || due.IsZero() || issue.IsZero() {
			return nil
		}
		if due.Before(issue.Time) {
			return errors.New("must not be before issueDate")
		}
		return nil
	}
}
