package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeDocumentNotFound   = "DOC001"
	ErrCodeInvalidReference   = "DOC002"
	ErrCodeNoAttachment       = "DOC003"
	ErrCodeStorageUnavailable = "DOC004"
)

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidReference   = errors.New("referenced client or project does not exist")
	ErrNoAttachment       = errors.New("document has no attachment")
	ErrStorageUnavailable = errors.New("file storage is not configured")
)

type DocumentError struct {
	Code    string
	Message string
	Err     error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func NewDocumentNotFoundError() *DocumentError {
	return &DocumentError{
		Code:    ErrCodeDocumentNotFound,
		Message: "Document not found",
		Err:     ErrDocumentNotFound,
	}
}

func NewInvalidReferenceError() *DocumentError {
	return &DocumentError{
		Code:    ErrCodeInvalidReference,
		Message: "Linked client or project not found",
		Err:     ErrInvalidReference,
	}
}

func NewNoAttachmentError() *DocumentError {
	return &DocumentError{
		Code:    ErrCodeNoAttachment,
		Message: "Document has no attachment",
		Err:     ErrNoAttachment,
	}
}

func NewStorageUnavailableError() *DocumentError {
	return &DocumentError{
		Code:    ErrCodeStorageUnavailable,
		Message: "File storage is not available",
		Err:     ErrStorageUnavailable,
	}
}
