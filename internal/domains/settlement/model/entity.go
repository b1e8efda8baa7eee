package model

import (
	"time"

	"github.com/google/uuid"
)

// SummaryCachePrefix key prefix của settlement summary trên Redis.
// Ghi vào projects/influencers cũng phải xoá "<prefix>*".
const SummaryCachePrefix = "settlements:summary:"

// =====================================================
// SETTLEMENT (project_influencers)
// =====================================================

// Settlement là một dòng project_influencers: fee và tình trạng thanh toán
// của một influencer trong một project. Duy nhất theo (ProjectID, InfluencerID).
type Settlement struct {
	ID                uuid.UUID     `json:"id"`
	ProjectID         uuid.UUID     `json:"projectId"`
	InfluencerID      uuid.UUID     `json:"influencerId"`
	Fee               int64         `json:"fee"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaymentDueDate    *time.Time    `json:"paymentDueDate"`
	PaymentDate       *time.Time    `json:"paymentDate"`
	ShootingDate      *time.Time    `json:"shootingDate"`
	DraftDeliveryDate *time.Time    `json:"draftDeliveryDate"`
	UploadDate        *time.Time    `json:"uploadDate"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// InfluencerRef thông tin influencer kèm theo settlement
type InfluencerRef struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	YoutubeHandle   *string   `json:"youtubeHandle,omitempty"`
	InstagramHandle *string   `json:"instagramHandle,omitempty"`
	BankName        *string   `json:"bankName,omitempty"`
	AccountNumber   *string   `json:"accountNumber,omitempty"`
}

// ProjectRef thông tin project kèm theo settlement
type ProjectRef struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ClientID   uuid.UUID `json:"clientId"`
	ClientName string    `json:"clientName"`
}

// SettlementDetail settlement đã join với influencer + project
type SettlementDetail struct {
	Settlement
	Influencer InfluencerRef `json:"influencer"`
	Project    ProjectRef    `json:"project"`
}

// Directory là bảng tra cứu influencer/project dùng khi tổng hợp.
// Một settlement có thể trỏ tới id không còn trong Directory (xoá đồng thời),
// aggregator bỏ qua những dòng đó.
type Directory struct {
	Influencers map[uuid.UUID]InfluencerRef
	Projects    map[uuid.UUID]ProjectRef
}

func NewDirectory() Directory {
	return Directory{
		Influencers: make(map[uuid.UUID]InfluencerRef),
		Projects:    make(map[uuid.UUID]ProjectRef),
	}
}

// =====================================================
// SUMMARY
// =====================================================

type StatusTotal struct {
	Amount int64 `json:"amount"`
	Count  int   `json:"count"`
}

type StatusTotals struct {
	Pending    StatusTotal `json:"pending"`
	InProgress StatusTotal `json:"in_progress"`
	Completed  StatusTotal `json:"completed"`
}

// Bucket trả về con trỏ tới bucket tương ứng với status
func (t *StatusTotals) Bucket(s PaymentStatus) *StatusTotal {
	switch s {
	case StatusCompleted:
		return &t.Completed
	case StatusInProgress:
		return &t.InProgress
	default:
		return &t.Pending
	}
}

func (t StatusTotals) TotalAmount() int64 {
	return t.Pending.Amount + t.InProgress.Amount + t.Completed.Amount
}

func (t StatusTotals) TotalCount() int {
	return t.Pending.Count + t.InProgress.Count + t.Completed.Count
}

type InfluencerTotal struct {
	InfluencerID uuid.UUID `json:"influencerId"`
	Name         string    `json:"name"`
	Amount       int64     `json:"amount"`
	ProjectCount int       `json:"projectCount"`
}

type ProjectTotal struct {
	ProjectID       uuid.UUID `json:"projectId"`
	Name            string    `json:"name"`
	ClientName      string    `json:"clientName"`
	Amount          int64     `json:"amount"`
	InfluencerCount int       `json:"influencerCount"`
}

type SettlementSummary struct {
	StatusTotals     StatusTotals      `json:"statusTotals"`
	InfluencerTotals []InfluencerTotal `json:"influencerTotals"`
	ProjectTotals    []ProjectTotal    `json:"projectTotals"`
}

// =====================================================
// FILTER
// =====================================================

// ListFilter lọc settlement. Status được lọc sau khi normalize
// vì cột payment_status có thể chứa giá trị legacy.
type ListFilter struct {
	ProjectID    *uuid.UUID
	InfluencerID *uuid.UUID
	Status       *PaymentStatus
	DueFrom      *time.Time
	DueTo        *time.Time
}

// Matches áp dụng phần filter không đẩy xuống SQL được
func (f ListFilter) Matches(s *Settlement) bool {
	if f.Status != nil && s.PaymentStatus != *f.Status {
		return false
	}
	return true
}
