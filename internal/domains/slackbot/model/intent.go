package model

import "errors"

type IntentKind string

const (
	IntentRecordRevenue IntentKind = "record_revenue"
	IntentRecordExpense IntentKind = "record_expense"
	IntentSettlements   IntentKind = "settlements"
	IntentThisMonth     IntentKind = "this_month"
	IntentThisWeek      IntentKind = "this_week"
	IntentHelp          IntentKind = "help"
	IntentUnknown       IntentKind = "unknown"
)

// DefaultCategory khi lệnh ghi sổ không kèm category
const DefaultCategory = "기타"

var ErrInvalidAmount = errors.New("invalid amount")

// Intent là kết quả parse một tin nhắn
type Intent struct {
	Kind     IntentKind
	Amount   int64
	Category string
	Memo     string

	// Err khác nil khi keyword hợp lệ nhưng tham số sai (vd. thiếu số tiền)
	Err error
}
