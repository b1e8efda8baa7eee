package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"agency-erp/internal/domains/report/model"
	stlmodel "agency-erp/internal/domains/settlement/model"
	stlservice "agency-erp/internal/domains/settlement/service"
	txmodel "agency-erp/internal/domains/transaction/model"
	"agency-erp/pkg/logger"
	"agency-erp/pkg/metrics"
)

// alertHorizonDays: settlement tới hạn xa hơn mốc D-7 không cần đọc
const alertHorizonDays = 8

var ErrUnknownJob = errors.New("unknown report job")

// Sink nhận nguyên văn report text (Slack chat.postMessage)
type Sink interface {
	SendMessage(ctx context.Context, channelID, text string) error
}

// TransactionReader là phần của transaction repository mà report cần
type TransactionReader interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]*txmodel.Transaction, error)
}

// SettlementReader là phần của settlement repository mà report cần
type SettlementReader interface {
	List(ctx context.Context, filter stlmodel.ListFilter) ([]*stlmodel.SettlementDetail, error)
	ListRaw(ctx context.Context, filter stlmodel.ListFilter) ([]*stlmodel.Settlement, error)
}

type ServiceInterface interface {
	// Run dispatches by job name; ref nil means "now" semantics of the job
	Run(ctx context.Context, job model.JobName, ref *time.Time) (*model.ReportResult, error)

	DailyAlerts(ctx context.Context, ref *time.Time) (*model.ReportResult, error)
	WeeklyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error)
	MonthlyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error)
}

type Options struct {
	Channel  string
	Location *time.Location
	Metrics  *metrics.Metrics
}

type reportService struct {
	transactions TransactionReader
	settlements  SettlementReader
	sink         Sink
	channel      string
	loc          *time.Location
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewReportService(tx TransactionReader, stl SettlementReader, sink Sink, opts Options) ServiceInterface {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		transactions: tx,
		settlements:  stl,
		sink:         sink,
		channel:      opts.Channel,
		loc:          loc,
		metrics:      opts.Metrics,
		now:          time.Now,
	}
}

func (s *reportService) Run(ctx context.Context, job model.JobName, ref *time.Time) (*model.ReportResult, error) {
	switch job {
	case model.JobDailyAlerts:
		return s.DailyAlerts(ctx, ref)
	case model.JobWeeklyReport:
		return s.WeeklyReport(ctx, ref)
	case model.JobMonthlyReport:
		return s.MonthlyReport(ctx, ref)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, job)
	}
}

// =====================================================
// DAILY ALERTS
// =====================================================

func (s *reportService) DailyAlerts(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	now := s.now().In(s.loc)
	today := now
	if ref != nil {
		today = ref.In(s.loc)
	}
	current, _ := DayWindow(today, s.loc)

	// Step 1: Load settlements due up to D-7 (overdue ones have no lower bound)
	dueTo := current.Start.AddDate(0, 0, alertHorizonDays)
	rows, err := s.settlements.List(ctx, stlmodel.ListFilter{DueTo: &dueTo})
	if err != nil {
		s.metrics.ReportJob(string(model.JobDailyAlerts), metrics.ResultFailure)
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	// Step 2: Bucket
	groups := BucketAlerts(current.Start, rows)
	result := &model.ReportResult{
		Job:    model.JobDailyAlerts,
		Period: current,
		Alerts: groups,
	}

	// Không có gì để báo thì không gửi
	if groups.Total() == 0 {
		result.Skipped = true
		s.metrics.ReportJob(string(model.JobDailyAlerts), metrics.ResultSuccess)
		logger.Info("daily alerts: nothing due", map[string]interface{}{"date": current.Start.Format("2006-01-02")})
		return result, nil
	}

	// Step 3: Render + deliver
	result.Text = RenderDailyAlerts(current.Start, groups, now)
	s.deliver(ctx, result)
	return result, nil
}

// =====================================================
// WEEKLY / MONTHLY
// =====================================================

// WeeklyReport báo cáo tuần chứa ref; mặc định là tuần vừa kết thúc
// (scheduler chạy sáng thứ Hai nên lấy now - 1 ngày).
func (s *reportService) WeeklyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	current, previous := WeekWindow(s.referenceDate(ref), s.loc)
	return s.periodReport(ctx, model.JobWeeklyReport, "주간 리포트", current, previous)
}

// MonthlyReport báo cáo tháng chứa ref; mặc định là tháng vừa kết thúc
func (s *reportService) MonthlyReport(ctx context.Context, ref *time.Time) (*model.ReportResult, error) {
	current, previous := MonthWindow(s.referenceDate(ref), s.loc)
	return s.periodReport(ctx, model.JobMonthlyReport, "월간 리포트", current, previous)
}

func (s *reportService) referenceDate(ref *time.Time) time.Time {
	if ref != nil {
		return ref.In(s.loc)
	}
	return s.now().In(s.loc).AddDate(0, 0, -1)
}

func (s *reportService) periodReport(
	ctx context.Context,
	job model.JobName,
	title string,
	current, previous model.Window,
) (*model.ReportResult, error) {
	// Step 1: Load current + prior window concurrently
	var (
		curTx, prevTx []*txmodel.Transaction
		stlRows       []*stlmodel.Settlement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curTx, err = s.transactions.ListBetween(gctx, current.Start, current.End)
		return err
	})
	g.Go(func() error {
		var err error
		prevTx, err = s.transactions.ListBetween(gctx, previous.Start, previous.End)
		return err
	})
	g.Go(func() error {
		var err error
		stlRows, err = s.settlements.ListRaw(gctx, stlmodel.ListFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.ReportJob(string(job), metrics.ResultFailure)
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	// Step 2: Aggregate
	summary := BuildPeriodSummary(current, previous, curTx, prevTx, stlRows)

	// Step 3: Render + deliver
	result := &model.ReportResult{
		Job:     job,
		Period:  current,
		Summary: summary,
		Text:    RenderPeriodReport(title, summary, s.now().In(s.loc)),
	}
	s.deliver(ctx, result)
	return result, nil
}

// BuildPeriodSummary tính totals, % thay đổi và breakdown theo category
func BuildPeriodSummary(
	current, previous model.Window,
	curTx, prevTx []*txmodel.Transaction,
	stlRows []*stlmodel.Settlement,
) *model.PeriodSummary {
	summary := &model.PeriodSummary{Current: current, Previous: previous}

	revenueByCat := map[string]int64{}
	expenseByCat := map[string]int64{}
	for _, t := range curTx {
		summary.Totals.Add(t)
		if t.PaymentStatus == txmodel.PaymentCancelled {
			continue
		}
		if t.Type == txmodel.TypeRevenue {
			revenueByCat[t.Category] += t.Amount
		} else {
			expenseByCat[t.Category] += t.Amount
		}
	}
	for _, t := range prevTx {
		summary.Prior.Add(t)
	}

	summary.RevenueChange = ChangePercent(summary.Totals.Revenue, summary.Prior.Revenue)
	summary.ExpenseChange = ChangePercent(summary.Totals.Expense, summary.Prior.Expense)
	summary.ProfitChange = ChangePercent(summary.Totals.Profit, summary.Prior.Profit)
	summary.RevenueByCategory = sortedCategories(revenueByCat)
	summary.ExpenseByCategory = sortedCategories(expenseByCat)

	totals := stlservice.Summarize(stlRows, stlmodel.NewDirectory()).StatusTotals
	for _, st := range stlmodel.AllStatuses {
		bucket := totals.Bucket(st)
		summary.Settlements = append(summary.Settlements, model.SettlementStatus{
			Label:  st.Label(),
			Amount: bucket.Amount,
			Count:  bucket.Count,
		})
	}
	return summary
}

// sortedCategories: giảm dần theo amount, cùng amount thì theo tên
func sortedCategories(m map[string]int64) []model.CategoryAmount {
	out := make([]model.CategoryAmount, 0, len(m))
	for k, v := range m {
		out = append(out, model.CategoryAmount{Category: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// deliver gửi text tới sink. Lỗi sink chỉ được log + đếm,
// kết quả đã tính vẫn được trả về với Delivered=false.
func (s *reportService) deliver(ctx context.Context, result *model.ReportResult) {
	job := string(result.Job)

	if s.sink == nil || s.channel == "" {
		result.DeliveryError = "notification sink not configured"
		logger.Warn("report not delivered: sink not configured", map[string]interface{}{"job": job})
		s.metrics.ReportSinkFailure(job)
		s.metrics.ReportJob(job, metrics.ResultSuccess)
		return
	}

	if err := s.sink.SendMessage(ctx, s.channel, result.Text); err != nil {
		result.DeliveryError = err.Error()
		logger.ErrorWithFields("report delivery failed", err, map[string]interface{}{
			"job":     job,
			"channel": s.channel,
		})
		s.metrics.ReportSinkFailure(job)
		s.metrics.ReportJob(job, metrics.ResultSuccess)
		return
	}

	result.Delivered = true
	s.metrics.ReportJob(job, metrics.ResultSuccess)
	logger.Info("report delivered", map[string]interface{}{
		"job":    job,
		"period": result.Period.Start.Format("2006-01-02"),
	})
}
