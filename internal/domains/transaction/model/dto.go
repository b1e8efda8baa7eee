package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/shared/types"
)

// CreateTransactionRequest POST /api/v1/transactions
type CreateTransactionRequest struct {
	Date          types.Date `json:"date"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Amount        int64      `json:"amount"`
	PaymentStatus string     `json:"paymentStatus"`
	ClientID      *uuid.UUID `json:"clientId"`
	ProjectID     *uuid.UUID `json:"projectId"`
	InfluencerID  *uuid.UUID `json:"influencerId"`
	Memo          *string    `json:"memo"`
}

func (r CreateTransactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.By(requiredDate)),
		validation.Field(&r.Type, validation.Required, validation.In(string(TypeRevenue), string(TypeExpense))),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Amount, validation.Min(int64(0))),
		validation.Field(&r.PaymentStatus, validation.In(
			string(PaymentPending), string(PaymentCompleted), string(PaymentCancelled),
		)),
		validation.Field(&r.Memo, validation.NilOrNotEmpty, validation.Length(0, 1000)),
	)
}

// ToTransaction; PaymentStatus mặc định PENDING
func (r CreateTransactionRequest) ToTransaction(now time.Time) *Transaction {
	status := PaymentStatus(r.PaymentStatus)
	if status == "" {
		status = PaymentPending
	}
	return &Transaction{
		ID:            uuid.New(),
		Date:          r.Date.Time,
		Type:          TransactionType(r.Type),
		Category:      r.Category,
		Amount:        r.Amount,
		PaymentStatus: status,
		ClientID:      r.ClientID,
		ProjectID:     r.ProjectID,
		InfluencerID:  r.InfluencerID,
		Memo:          r.Memo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UpdateTransactionRequest: sửa tại chỗ, field nil thì giữ nguyên
type UpdateTransactionRequest struct {
	Date          *types.Date `json:"date"`
	Type          *string     `json:"type"`
	Category      *string     `json:"category"`
	Amount        *int64      `json:"amount"`
	PaymentStatus *string     `json:"paymentStatus"`
	Memo          *string     `json:"memo"`
}

func (r UpdateTransactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.NilOrNotEmpty, validation.In(string(TypeRevenue), string(TypeExpense))),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Amount, validation.Min(int64(0))),
		validation.Field(&r.PaymentStatus, validation.NilOrNotEmpty, validation.In(
			string(PaymentPending), string(PaymentCompleted), string(PaymentCancelled),
		)),
	)
}

// Apply ghi các field được gửi lên vào entity
func (r UpdateTransactionRequest) Apply(t *Transaction) {
	if r.Date != nil && !r.Date.IsZero() {
		t.Date = r.Date.Time
	}
	if r.Type != nil {
		t.Type = TransactionType(*r.Type)
	}
	if r.Category != nil {
		t.Category = *r.Category
	}
	if r.Amount != nil {
		t.Amount = *r.Amount
	}
	if r.PaymentStatus != nil {
		t.PaymentStatus = PaymentStatus(*r.PaymentStatus)
	}
	if r.Memo != nil {
		t.Memo = r.Memo
	}
}

// SummaryResponse GET /api/v1/transactions/summary
type SummaryResponse struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Totals     Totals           `json:"totals"`
	ByCategory map[string]int64 `json:"byCategory"`
}

func requiredDate(value interface{}) error {
	d, ok := value.(types.Date)
	if !ok || d.IsZero() {
		return validation.ErrRequired
	}
	return nil
}
