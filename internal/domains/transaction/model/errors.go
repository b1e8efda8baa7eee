package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeTransactionNotFound = "TRX001"
	ErrCodeInvalidReference    = "TRX002"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidReference    = errors.New("referenced client, project or influencer does not exist")
)

type TransactionError struct {
	Code    string
	Message string
	Err     error
}

func (e *TransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func NewTransactionNotFoundError() *TransactionError {
	return &TransactionError{
		Code:    ErrCodeTransactionNotFound,
		Message: "Transaction not found",
		Err:     ErrTransactionNotFound,
	}
}

func NewInvalidReferenceError() *TransactionError {
	return &TransactionError{
		Code:    ErrCodeInvalidReference,
		Message: "Linked client, project or influencer not found",
		Err:     ErrInvalidReference,
	}
}
