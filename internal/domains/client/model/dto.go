package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name         string   `json:"name"`
	BusinessNo   *string  `json:"businessNo"`
	ContactName  *string  `json:"contactName"`
	ContactEmail *string  `json:"contactEmail"`
	ContactPhone *string  `json:"contactPhone"`
	Status       string   `json:"status"`
	Categories   []string `json:"categories"`
	Memo         *string  `json:"memo"`
}

func (r CreateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ContactEmail, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.ContactPhone, validation.Length(0, 30)),
		validation.Field(&r.Status, validation.In(statusStrings()...)),
	)
}

func (r CreateClientRequest) ToClient(now time.Time) *Client {
	status := ClientStatus(r.Status)
	if status == "" {
		status = StatusActive
	}
	return &Client{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(r.Name),
		BusinessNo:   r.BusinessNo,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Status:       status,
		Categories:   cleanTags(r.Categories),
		Memo:         r.Memo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateClientRequest: field nil = giữ nguyên
type UpdateClientRequest struct {
	Name         *string   `json:"name"`
	BusinessNo   *string   `json:"businessNo"`
	ContactName  *string   `json:"contactName"`
	ContactEmail *string   `json:"contactEmail"`
	ContactPhone *string   `json:"contactPhone"`
	Status       *string   `json:"status"`
	Categories   *[]string `json:"categories"`
	Memo         *string   `json:"memo"`
}

func (r UpdateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.ContactEmail, is.EmailFormat),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(statusStrings()...)),
	)
}

func (r UpdateClientRequest) Apply(c *Client) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.BusinessNo != nil {
		c.BusinessNo = r.BusinessNo
	}
	if r.ContactName != nil {
		c.ContactName = r.ContactName
	}
	if r.ContactEmail != nil {
		c.ContactEmail = r.ContactEmail
	}
	if r.ContactPhone != nil {
		c.ContactPhone = r.ContactPhone
	}
	if r.Status != nil {
		c.Status = ClientStatus(*r.Status)
	}
	if r.Categories != nil {
		c.Categories = cleanTags(*r.Categories)
	}
	if r.Memo != nil {
		c.Memo = r.Memo
	}
}

func statusStrings() []interface{} {
	return []interface{}{string(StatusActive), string(StatusDormant), string(StatusTerminated)}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
