package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeClientNotFound      = "CLI001"
	ErrCodeClientHasDependents = "CLI002"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientHasDependents = errors.New("client still has projects or transactions")
)

type ClientError struct {
	Code    string
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func NewClientNotFoundError() *ClientError {
	return &ClientError{
		Code:    ErrCodeClientNotFound,
		Message: "Client not found",
		Err:     ErrClientNotFound,
	}
}

func NewClientHasDependentsError() *ClientError {
	return &ClientError{
		Code:    ErrCodeClientHasDependents,
		Message: "Client cannot be deleted while projects or transactions reference it",
		Err:     ErrClientHasDependents,
	}
}
