package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	StatusQuoting    ProjectStatus = "QUOTING"
	StatusInProgress ProjectStatus = "IN_PROGRESS"
	StatusCompleted  ProjectStatus = "COMPLETED"
	StatusCancelled  ProjectStatus = "CANCELLED"
)

// Project là một campaign của client; influencer gắn vào qua project_influencers
type Project struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"clientId"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Budget      int64         `json:"budget"`
	StartDate   *time.Time    `json:"startDate"`
	Deadline    *time.Time    `json:"deadline"`
	Description *string       `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// joined
	ClientName      string `json:"clientName"`
	InfluencerCount int    `json:"influencerCount"`
	TotalFee        int64  `json:"totalFee"`
}

type Filter struct {
	ClientID *uuid.UUID
	Status   *ProjectStatus
	Search   string
}

// DeadlineMarker dùng cho calendar rebuild
type DeadlineMarker struct {
	ProjectID  uuid.UUID
	Name       string
	ClientName string
	Deadline   time.Time
}
