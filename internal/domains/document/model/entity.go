package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	TypeQuote    DocumentType = "QUOTE"
	TypeInvoice  DocumentType = "INVOICE"
	TypeContract DocumentType = "CONTRACT"
)

// Prefix trả về tiền tố docNumber: QUOTE→QT, INVOICE→INV, CONTRACT→CT
func (t DocumentType) Prefix() (string, bool) {
	switch t {
	case TypeQuote:
		return "QT", true
	case TypeInvoice:
		return "INV", true
	case TypeContract:
		return "CT", true
	}
	return "", false
}

type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusSent     DocumentStatus = "SENT"
	StatusAccepted DocumentStatus = "ACCEPTED"
	StatusRejected DocumentStatus = "REJECTED"
	StatusPaid     DocumentStatus = "PAID"
)

var AllStatuses = []DocumentStatus{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusPaid}

type Document struct {
	ID        uuid.UUID      `json:"id"`
	DocNumber string         `json:"docNumber"`
	Type      DocumentType   `json:"type"`
	Title     string         `json:"title"`
	Amount    int64          `json:"amount"`
	Status    DocumentStatus `json:"status"`
	IssueDate time.Time      `json:"issueDate"`
	DueDate   *time.Time     `json:"dueDate"`
	ClientID  *uuid.UUID     `json:"clientId"`
	ProjectID *uuid.UUID     `json:"projectId"`
	FileKey   *string        `json:"-"`
	FileName  *string        `json:"fileName"`
	Memo      *string        `json:"memo"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`

	ClientName  *string `json:"clientName,omitempty"`
	ProjectName *string `json:"projectName,omitempty"`
}

func (d *Document) HasAttachment() bool {
	return d.FileKey != nil && *d.FileKey != ""
}

// Period là tháng phát hành dạng YYYYMM, dùng làm khoá của document_sequences
func Period(issueDate time.Time) string {
	return issueDate.Format("200601")
}

// FormatDocNumber: {PREFIX}-{YYYYMM}-{seq:03d}, seq > 999 vẫn in đủ chữ số
func FormatDocNumber(prefix, period string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, period, seq)
}

type Filter struct {
	Type      *DocumentType
	Status    *DocumentStatus
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
	Search    string
}

// Attachment là file đính kèm đọc từ object storage
type Attachment struct {
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
}
