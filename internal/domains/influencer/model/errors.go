package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeInfluencerNotFound      = "INF001"
	ErrCodeInfluencerHasDependents = "INF002"
)

var (
	ErrInfluencerNotFound      = errors.New("influencer not found")
	ErrInfluencerHasDependents = errors.New("influencer still has settlements or transactions")
)

type InfluencerError struct {
	Code    string
	Message string
	Err     error
}

func (e *InfluencerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InfluencerError) Unwrap() error {
	return e.Err
}

func NewInfluencerNotFoundError() *InfluencerError {
	return &InfluencerError{Code: ErrCodeInfluencerNotFound, Message: "Influencer not found", Err: ErrInfluencerNotFound}
}

func NewInfluencerHasDependentsError() *InfluencerError {
	return &InfluencerError{
		Code:    ErrCodeInfluencerHasDependents,
		Message: "Influencer cannot be deleted while settlements or transactions reference it",
		Err:     ErrInfluencerHasDependents,
	}
}
