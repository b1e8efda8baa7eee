package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ChangePercent so sánh current với previous, một chữ số thập phân, luôn có dấu.
// previous = 0 không phải lỗi chia cho 0: trả về "0%" hoặc "+∞%" / "-∞%"
// và giá trị này được hiển thị nguyên văn trong report.
func ChangePercent(current, previous int64) string {
	if previous == 0 {
		switch {
		case current == 0:
			return "0%"
		case current > 0:
			return "+∞%"
		default:
			return "-∞%"
		}
	}

	diff := decimal.NewFromInt(current - previous)
	pct := diff.Div(decimal.NewFromInt(previous).Abs()).Mul(hundred)

	// dấu lấy từ diff: 9999→10000 là "-0.0%", không phải "0.0%"
	s := pct.Abs().StringFixed(1)
	switch diff.Sign() {
	case 1, 0:
		s = "+" + s
	default:
		s = "-" + s
	}
	return s + "%"
}
