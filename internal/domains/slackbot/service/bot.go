package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	reportmodel "agency-erp/internal/domains/report/model"
	reportservice "agency-erp/internal/domains/report/service"
	stlmodel "agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/slackbot/model"
	txmodel "agency-erp/internal/domains/transaction/model"
	"agency-erp/internal/shared/types"
	"agency-erp/internal/shared/utils"
	"agency-erp/pkg/logger"
)

// Replier gửi reply về Slack (thread)
type Replier interface {
	PostMessage(ctx context.Context, channelID, text, threadTS string) (string, error)
}

type TransactionService interface {
	Create(ctx context.Context, req txmodel.CreateTransactionRequest) (*txmodel.Transaction, error)
	Summary(ctx context.Context, from, to time.Time) (*txmodel.SummaryResponse, error)
}

type SettlementSummarizer interface {
	GetSummary(ctx context.Context, filter stlmodel.ListFilter) (*stlmodel.SettlementSummary, error)
}

type ServiceInterface interface {
	// HandleEvent parse message, thực thi intent và reply vào thread
	HandleEvent(ctx context.Context, ev *model.InnerEvent) error
	// Respond chỉ tính reply text, không gửi
	Respond(ctx context.Context, text string) (string, error)
}

type Options struct {
	Location *time.Location
}

type botService struct {
	tx          TransactionService
	settlements SettlementSummarizer
	replier     Replier
	loc         *time.Location
	now         func() time.Time
}

func NewBotService(tx TransactionService, stl SettlementSummarizer, replier Replier, opts Options) ServiceInterface {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &botService{
		tx:          tx,
		settlements: stl,
		replier:     replier,
		loc:         loc,
		now:         time.Now,
	}
}

func (s *botService) HandleEvent(ctx context.Context, ev *model.InnerEvent) error {
	if !ev.Actionable() {
		return nil
	}

	reply, err := s.Respond(ctx, ev.Text)
	if err != nil {
		logger.ErrorWithFields("slack intent failed", err, map[string]interface{}{
			"channel": ev.Channel,
			"user":    ev.User,
		})
		reply = "⚠️ 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	}

	if _, sendErr := s.replier.PostMessage(ctx, ev.Channel, reply, ev.ReplyThread()); sendErr != nil {
		return fmt.Errorf("post reply: %w", sendErr)
	}
	return err
}

func (s *botService) Respond(ctx context.Context, text string) (string, error) {
	intent := ParseIntent(text)

	switch intent.Kind {
	case model.IntentRecordRevenue, model.IntentRecordExpense:
		return s.record(ctx, intent)
	case model.IntentSettlements:
		return s.settlementTotals(ctx)
	case model.IntentThisMonth:
		current, _ := reportservice.MonthWindow(s.now(), s.loc)
		return s.periodTotals(ctx, "이번 달", current)
	case model.IntentThisWeek:
		current, _ := reportservice.WeekWindow(s.now(), s.loc)
		return s.periodTotals(ctx, "이번 주", current)
	case model.IntentHelp:
		return helpText, nil
	default:
		return "무슨 말인지 모르겠어요 🤔 `도움말` 을 입력해보세요.", nil
	}
}

func (s *botService) record(ctx context.Context, intent model.Intent) (string, error) {
	label := "매출"
	typ := txmodel.TypeRevenue
	if intent.Kind == model.IntentRecordExpense {
		label = "지출"
		typ = txmodel.TypeExpense
	}

	if intent.Err != nil {
		if errors.Is(intent.Err, model.ErrInvalidAmount) {
			return fmt.Sprintf("금액을 이해하지 못했어요. 예: `%s 50만 광고 메모`", label), nil
		}
		return "", intent.Err
	}

	req := txmodel.CreateTransactionRequest{
		Date:     types.NewDate(s.now().In(s.loc)),
		Type:     string(typ),
		Category: intent.Category,
		Amount:   intent.Amount,
	}
	if intent.Memo != "" {
		req.Memo = utils.StringPtr(intent.Memo)
	}

	created, err := s.tx.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s 기록 완료\n", label)
	fmt.Fprintf(&b, "• 금액: %s\n", utils.FormatCurrency(created.Amount))
	fmt.Fprintf(&b, "• 카테고리: %s\n", created.Category)
	fmt.Fprintf(&b, "• 날짜: %s", utils.FormatDate(created.Date))
	if created.Memo != nil {
		fmt.Fprintf(&b, "\n• 메모: %s", *created.Memo)
	}
	return b.String(), nil
}

func (s *botService) settlementTotals(ctx context.Context) (string, error) {
	summary, err := s.settlements.GetSummary(ctx, stlmodel.ListFilter{})
	if err != nil {
		return "", fmt.Errorf("settlement summary: %w", err)
	}

	totals := summary.StatusTotals
	var b strings.Builder
	b.WriteString("🤝 정산 현황\n")
	for _, st := range stlmodel.AllStatuses {
		bucket := totals.Bucket(st)
		fmt.Fprintf(&b, "• %s: %d건 / %s\n", st.Label(), bucket.Count, utils.FormatCurrency(bucket.Amount))
	}
	fmt.Fprintf(&b, "합계: %d건 / %s", totals.TotalCount(), utils.FormatCurrency(totals.TotalAmount()))
	return b.String(), nil
}

func (s *botService) periodTotals(ctx context.Context, label string, w reportmodel.Window) (string, error) {
	summary, err := s.tx.Summary(ctx, w.Start, w.End)
	if err != nil {
		return "", fmt.Errorf("transaction summary: %w", err)
	}

	t := summary.Totals
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s 현황 (%s ~ %s)\n", label, utils.FormatDate(w.Start), utils.FormatDate(w.LastDay()))
	fmt.Fprintf(&b, "• 매출: %s\n", utils.FormatCurrency(t.Revenue))
	fmt.Fprintf(&b, "• 지출: %s\n", utils.FormatCurrency(t.Expense))
	fmt.Fprintf(&b, "• 순이익: %s\n", utils.FormatCurrency(t.Profit))
	fmt.Fprintf(&b, "• 거래 건수: %d건", t.Count)
	return b.String(), nil
}

const helpText = "📖 사용법\n" +
	"• `매출 50만 광고 메모` : 매출 기록 (revenue / income)\n" +
	"• `지출 1.5억 제작비` : 지출 기록 (expense)\n" +
	"• `정산` : 정산 현황 (settlements)\n" +
	"• `이번달` / `이번주` : 이번 달 / 이번 주 매출·지출 (this month / this week)\n" +
	"• `도움말` : 이 메시지 (help)"
