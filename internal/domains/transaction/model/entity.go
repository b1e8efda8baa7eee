package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeRevenue TransactionType = "REVENUE"
	TypeExpense TransactionType = "EXPENSE"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Transaction là một dòng sổ cái. Amount luôn >= 0, dấu suy ra từ Type.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Date          time.Time       `json:"date"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Amount        int64           `json:"amount"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	ClientID      *uuid.UUID      `json:"clientId"`
	ProjectID     *uuid.UUID      `json:"projectId"`
	InfluencerID  *uuid.UUID      `json:"influencerId"`
	Memo          *string         `json:"memo"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// joined, read-only
	ClientName     *string `json:"clientName,omitempty"`
	ProjectName    *string `json:"projectName,omitempty"`
	InfluencerName *string `json:"influencerName,omitempty"`
}

// SignedAmount: revenue dương, expense âm
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// Totals tổng hợp revenue / expense trong một khoảng thời gian
type Totals struct {
	Revenue int64 `json:"revenue"`
	Expense int64 `json:"expense"`
	Profit  int64 `json:"profit"`
	Count   int   `json:"count"`
}

// Add cộng một transaction vào totals; CANCELLED không được tính
func (t *Totals) Add(tx *Transaction) {
	if tx.PaymentStatus == PaymentCancelled {
		return
	}
	switch tx.Type {
	case TypeRevenue:
		t.Revenue += tx.Amount
	case TypeExpense:
		t.Expense += tx.Amount
	}
	t.Profit = t.Revenue - t.Expense
	t.Count++
}

// Filter cho list
type Filter struct {
	From      *time.Time
	To        *time.Time
	Type      *TransactionType
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
	Category  *string
	Page      int
	Limit     int
}
