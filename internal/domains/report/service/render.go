package service

import (
	"fmt"
	"strings"
	"time"

	"agency-erp/internal/domains/report/model"
	"agency-erp/internal/shared/utils"
)

const divider = "──────────────"

// RenderPeriodReport: tóm tắt tài chính -> breakdown theo category -> settlement -> footer
func RenderPeriodReport(title string, s *model.PeriodSummary, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s (%s ~ %s)\n\n", title,
		utils.FormatDate(s.Current.Start), utils.FormatDate(s.Current.LastDay()))

	b.WriteString("💰 재무 요약\n")
	fmt.Fprintf(&b, "• 매출: %s (%s)\n", utils.FormatCurrency(s.Totals.Revenue), s.RevenueChange)
	fmt.Fprintf(&b, "• 지출: %s (%s)\n", utils.FormatCurrency(s.Totals.Expense), s.ExpenseChange)
	fmt.Fprintf(&b, "• 순이익: %s (%s)\n", utils.FormatCurrency(s.Totals.Profit), s.ProfitChange)
	fmt.Fprintf(&b, "• 거래 건수: %d건\n\n", s.Totals.Count)

	b.WriteString("📂 카테고리별 내역\n")
	writeCategories(&b, "매출", s.RevenueByCategory)
	writeCategories(&b, "지출", s.ExpenseByCategory)
	b.WriteString("\n")

	b.WriteString("🤝 정산 현황\n")
	for _, st := range s.Settlements {
		fmt.Fprintf(&b, "• %s: %d건 / %s\n", st.Label, st.Count, utils.FormatCurrency(st.Amount))
	}
	b.WriteString("\n")

	writeFooter(&b, generatedAt)
	return b.String()
}

func writeCategories(b *strings.Builder, label string, items []model.CategoryAmount) {
	fmt.Fprintf(b, "[%s]\n", label)
	if len(items) == 0 {
		b.WriteString("• 없음\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "• %s: %s\n", it.Category, utils.FormatCurrency(it.Amount))
	}
}

// RenderDailyAlerts: quá hạn -> hôm nay -> D-3 -> D-7 -> footer. Nhóm rỗng bị bỏ qua.
func RenderDailyAlerts(today time.Time, g *model.AlertGroups, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔔 정산 알림 (%s)\n\n", utils.FormatDate(today))

	writeAlertGroup(&b, "🚨 연체", g.Overdue)
	writeAlertGroup(&b, "📅 오늘 마감", g.DDay)
	writeAlertGroup(&b, "⏰ D-3", g.D3)
	writeAlertGroup(&b, "🗓️ D-7", g.D7)

	writeFooter(&b, generatedAt)
	return b.String()
}

func writeAlertGroup(b *strings.Builder, header string, items []model.AlertItem) {
	if len(items) == 0 {
		return
	}
	var total int64
	for _, it := range items {
		total += it.Fee
	}
	fmt.Fprintf(b, "%s (%d건, %s)\n", header, len(items), utils.FormatCurrency(total))
	for _, it := range items {
		fmt.Fprintf(b, "• %s / %s: %s (지급일 %s", it.ProjectName, it.InfluencerName,
			utils.FormatCurrency(it.Fee), it.DueDate)
		if it.DaysLeft < 0 {
			fmt.Fprintf(b, ", %d일 지남", -it.DaysLeft)
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, generatedAt time.Time) {
	b.WriteString(divider + "\n")
	fmt.Fprintf(b, "생성: %s", generatedAt.Format("2006-01-02 15:04 MST"))
}
