package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	TypeProjectDeadline EventType = "PROJECT_DEADLINE"
	TypeSettlementDue   EventType = "SETTLEMENT_DUE"
	TypeCustom          EventType = "CUSTOM"
)

// Generated: marker do rebuild sinh ra, không sửa tay
func (t EventType) Generated() bool {
	return t == TypeProjectDeadline || t == TypeSettlementDue
}

// Event là một dòng calendar_events. SourceID trỏ tới project (deadline)
// hoặc project_influencers (settlement due); CUSTOM thì nil.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Type        EventType  `json:"type"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Date        time.Time  `json:"date"`
	SourceID    *uuid.UUID `json:"sourceId"`
	ProjectID   *uuid.UUID `json:"projectId"`
	ExternalID  *string    `json:"externalId"`
	SyncedAt    *time.Time `json:"syncedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MarkerKey định danh marker sinh tự động theo (type, source)
func (e *Event) MarkerKey() string {
	if e.SourceID == nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", e.Type, e.SourceID)
}

type RebuildResult struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	ProjectDeadlines int       `json:"projectDeadlines"`
	SettlementDues   int       `json:"settlementDues"`
	Upserted         int       `json:"upserted"`
	Removed          int       `json:"removed"`
}

type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

var (
	ErrEventNotFound     = errors.New("calendar event not found")
	ErrGeneratedReadOnly = errors.New("generated markers are managed by rebuild")
	ErrSyncNotConfigured = errors.New("google calendar sync is not configured")
	ErrSyncTimeout       = errors.New("google calendar request timed out")
)

const (
	ErrCodeEventNotFound     = "CAL001"
	ErrCodeGeneratedReadOnly = "CAL002"
	ErrCodeSyncNotConfigured = "CAL003"
	ErrCodeSyncTimeout       = "CAL004"
)

type CalendarError struct {
	Code    string
	Message string
	Err     error
}

func (e *CalendarError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CalendarError) Unwrap() error {
	return e.Err
}

func NewEventNotFoundError() *CalendarError {
	return &CalendarError{Code: ErrCodeEventNotFound, Message: "Calendar event not found", Err: ErrEventNotFound}
}

func NewGeneratedReadOnlyError() *CalendarError {
	return &CalendarError{Code: ErrCodeGeneratedReadOnly, Message: "Generated markers cannot be deleted manually", Err: ErrGeneratedReadOnly}
}

func NewSyncNotConfiguredError() *CalendarError {
	return &CalendarError{Code: ErrCodeSyncNotConfigured, Message: "Google Calendar sync is not configured", Err: ErrSyncNotConfigured}
}

func NewSyncTimeoutError(err error) *CalendarError {
	return &CalendarError{Code: ErrCodeSyncTimeout, Message: "request timed out", Err: fmt.Errorf("%w: %v", ErrSyncTimeout, err)}
}
