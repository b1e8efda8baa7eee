package model

import (
	"time"

	"github.com/google/uuid"
)

type ClientStatus string

const (
	StatusActive     ClientStatus = "ACTIVE"
	StatusDormant    ClientStatus = "DORMANT"
	StatusTerminated ClientStatus = "TERMINATED"
)

var AllStatuses = []ClientStatus{StatusActive, StatusDormant, StatusTerminated}

// Client là công ty/brand đặt hàng campaign
type Client struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	BusinessNo   *string      `json:"businessNo"`
	ContactName  *string      `json:"contactName"`
	ContactEmail *string      `json:"contactEmail"`
	ContactPhone *string      `json:"contactPhone"`
	Status       ClientStatus `json:"status"`
	Categories   []string     `json:"categories"`
	Memo         *string      `json:"memo"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	ProjectCount int          `json:"projectCount"`
	TotalRevenue int64        `json:"totalRevenue"`
}

type Filter struct {
	Search string
	Status *ClientStatus
}
