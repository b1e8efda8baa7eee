package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeSettlementNotFound = "STL001"
	ErrCodeProjectNotFound    = "STL002"
	ErrCodeInfluencerNotFound = "STL003"
	ErrCodeDuplicateEntry     = "STL004"
	ErrCodeSyncFailed         = "STL005"
)

// Errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrInfluencerNotFound  = errors.New("influencer not found")
	ErrDuplicateInfluencer = errors.New("duplicate influencer in collaborator list")
	ErrSyncFailed          = errors.New("collaborator sync failed")
)

// SettlementError custom error type
type SettlementError struct {
	Code    string
	Message string
	Err     error
}

func (e *SettlementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewSettlementNotFoundError() *SettlementError {
	return &SettlementError{
		Code:    ErrCodeSettlementNotFound,
		Message: "Settlement not found",
		Err:     ErrSettlementNotFound,
	}
}

func NewProjectNotFoundError() *SettlementError {
	return &SettlementError{
		Code:    ErrCodeProjectNotFound,
		Message: "Project not found",
		Err:     ErrProjectNotFound,
	}
}

func NewInfluencerNotFoundError() *SettlementError {
	return &SettlementError{
		Code:    ErrCodeInfluencerNotFound,
		Message: "One or more influencers do not exist",
		Err:     ErrInfluencerNotFound,
	}
}

// NewSyncFailedError bọc nguyên nhân, transaction đã rollback toàn bộ
func NewSyncFailedError(cause error) *SettlementError {
	return &SettlementError{
		Code:    ErrCodeSyncFailed,
		Message: "Collaborator sync failed, no changes were applied",
		Err:     fmt.Errorf("%w: %w", ErrSyncFailed, cause),
	}
}
