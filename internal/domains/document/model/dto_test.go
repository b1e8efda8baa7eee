package model

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/internal/shared/types"
)

func TestDocumentType_Prefix(t *testing.T) {
	tests := []struct {
		in   DocumentType
		want string
		ok   bool
	}{
		{TypeQuote, "QT", true},
		{TypeInvoice, "INV", true},
		{TypeContract, "CT", true},
		{DocumentType("RECEIPT"), "", false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Prefix()
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestFormatDocNumber(t *testing.T) {
	issued := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202603-001", FormatDocNumber("INV", Period(issued), 1))
	assert.Equal(t, "QT-202603-042", FormatDocNumber("QT", Period(issued), 42))
	assert.Equal(t, "CT-202603-1234", FormatDocNumber("CT", Period(issued), 1234))
}

func TestCreateDocumentRequest_Validate(t *testing.T) {
	issue, err := types.ParseDate("2026-03-15")
	require.NoError(t, err)
	early, err := types.ParseDate("2026-03-01")
	require.NoError(t, err)

	ok := CreateDocumentRequest{Type: "INVOICE", Title: "3월 캠페인 청구", Amount: 1500000, IssueDate: issue}
	assert.NoError(t, ok.Validate())

	badType := ok
	badType.Type = "RECEIPT"
	var verrs validation.Errors
	require.ErrorAs(t, badType.Validate(), &verrs)
	assert.Contains(t, verrs, "type")

	badDue := ok
	badDue.DueDate = &early
	require.ErrorAs(t, badDue.Validate(), &verrs)
	assert.Contains(t, verrs, "dueDate")

	negative := ok
	negative.Amount = -1
	require.ErrorAs(t, negative.Validate(), &verrs)
	assert.Contains(t, verrs, "amount")
}

func TestCreateDocumentRequest_ToDocumentDefaults(t *testing.T) {
	now := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	doc := CreateDocumentRequest{Type: "QUOTE", Title: "  견적서 "}.ToDocument(now)

	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, "견적서", doc.Title)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), doc.IssueDate)
	assert.Nil(t, doc.DueDate)
	assert.False(t, doc.HasAttachment())
}
