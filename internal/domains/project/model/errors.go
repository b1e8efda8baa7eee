package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeProjectNotFound      = "PRJ001"
	ErrCodeClientNotFound       = "PRJ002"
	ErrCodeProjectHasDependents = "PRJ003"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrProjectHasDependents = errors.New("project still has transactions or documents")
)

type ProjectError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProjectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

func NewProjectNotFoundError() *ProjectError {
	return &ProjectError{Code: ErrCodeProjectNotFound, Message: "Project not found", Err: ErrProjectNotFound}
}

func NewClientNotFoundError() *ProjectError {
	return &ProjectError{Code: ErrCodeClientNotFound, Message: "Client not found", Err: ErrClientNotFound}
}

func NewProjectHasDependentsError() *ProjectError {
	return &ProjectError{
		Code:    ErrCodeProjectHasDependents,
		Message: "Project cannot be deleted while transactions or documents reference it",
		Err:     ErrProjectHasDependents,
	}
}
