package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/shared/types"
)

type CreateProjectRequest struct {
	ClientID    uuid.UUID   `json:"clientId"`
	Name        string      `json:"name"`
	Status      string      `json:"status"`
	Budget      int64       `json:"budget"`
	StartDate   *types.Date `json:"startDate"`
	Deadline    *types.Date `json:"deadline"`
	Description *string     `json:"description"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.By(requiredUUID)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(statusStrings()...)),
		validation.Field(&r.Budget, validation.Min(int64(0))),
		validation.Field(&r.Deadline, validation.By(notBefore(r.StartDate))),
	)
}

func (r CreateProjectRequest) ToProject(now time.Time) *Project {
	status := ProjectStatus(r.Status)
	if status == "" {
		status = StatusQuoting
	}
	return &Project{
		ID:          uuid.New(),
		ClientID:    r.ClientID,
		Name:        strings.TrimSpace(r.Name),
		Status:      status,
		Budget:      r.Budget,
		StartDate:   r.StartDate.TimePtr(),
		Deadline:    r.Deadline.TimePtr(),
		Description: r.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type UpdateProjectRequest struct {
	ClientID    *uuid.UUID  `json:"clientId"`
	Name        *string     `json:"name"`
	Status      *string     `json:"status"`
	Budget      *int64      `json:"budget"`
	StartDate   *types.Date `json:"startDate"`
	Deadline    *types.Date `json:"deadline"`
	Description *string     `json:"description"`
}

func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statusStrings()...)),
		validation.Field(&r.Budget, validation.Min(int64(0))),
	)
}

func (r UpdateProjectRequest) Apply(p *Project) {
	if r.ClientID != nil {
		p.ClientID = *r.ClientID
	}
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Status != nil {
		p.Status = ProjectStatus(*r.Status)
	}
	if r.Budget != nil {
		p.Budget = *r.Budget
	}
	if r.StartDate != nil {
		p.StartDate = r.StartDate.TimePtr()
	}
	if r.Deadline != nil {
		p.Deadline = r.Deadline.TimePtr()
	}
	if r.Description != nil {
		p.Description = r.Description
	}
}

func statusStrings() []interface{} {
	return []interface{}{
		string(StatusQuoting), string(StatusInProgress),
		string(StatusCompleted), string(StatusCancelled),
	}
}

func requiredUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
}

func notBefore(start *types.Date) validation.RuleFunc {
	return func(value interface{}) error {
		end, _ := value.(*types.Date)
		if start == nil || end == nil || start.IsZero() || end.IsZero() {
			return nil
		}
		if end.Before(start.Time) {
			return errors.New("must not be before startDate")
		}
		return nil
	}
}
