package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"agency-erp/internal/shared/types"
)

// CreateEventRequest POST /api/v1/calendar/events (chỉ tạo CUSTOM)
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Date        types.Date `json:"date"`
	Description *string    `json:"description"`
	ProjectID   *uuid.UUID `json:"projectId"`
}

func (r CreateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Date, validation.By(func(value interface{}) error {
			if d, ok := value.(types.Date); !ok || d.IsZero() {
				return validation.ErrRequired
			}
			return nil
		})),
		validation.Field(&r.Description, validation.NilOrNotEmpty, validation.Length(0, 2000)),
	)
}

func (r CreateEventRequest) ToEvent(now time.Time) *Event {
	return &Event{
		ID:          uuid.New(),
		Type:        TypeCustom,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Date:        r.Date.Time,
		ProjectID:   r.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
