package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stlmodel "agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/domains/slackbot/model"
	txmodel "agency-erp/internal/domains/transaction/model"
)

type fakeTx struct {
	created  []txmodel.CreateTransactionRequest
	from, to time.Time
	totals   txmodel.Totals
	err      error
}

func (f *fakeTx) Create(_ context.Context, req txmodel.CreateTransactionRequest) (*txmodel.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return req.ToTransaction(time.Now()), nil
}

func (f *fakeTx) Summary(_ context.Context, from, to time.Time) (*txmodel.SummaryResponse, error) {
	f.from, f.to = from, to
	return &txmodel.SummaryResponse{Totals: f.totals}, nil
}

type fakeSummary struct{ summary *stlmodel.SettlementSummary }

func (f *fakeSummary) GetSummary(context.Context, stlmodel.ListFilter) (*stlmodel.SettlementSummary, error) {
	return f.summary, nil
}

type fakeReplier struct {
	channel, text, thread string
	err                   error
}

func (f *fakeReplier) PostMessage(_ context.Context, channel, text, thread string) (string, error) {
	f.channel, f.text, f.thread = channel, text, thread
	return "2.2", f.err
}

var kst = time.FixedZone("KST", 9*3600)

func newBot(tx *fakeTx, stl *fakeSummary, rep *fakeReplier, now time.Time) *botService {
	svc := NewBotService(tx, stl, rep, Options{Location: kst}).(*botService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRespond_RecordsRevenue(t *testing.T) {
	tx := &fakeTx{}
	// 2026-10-19 23:30 UTC = 2026-10-20 08:30 KST
	bot := newBot(tx, &fakeSummary{}, &fakeReplier{}, time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC))

	reply, err := bot.Respond(context.Background(), "매출 50만 광고 A사 잔금")
	require.NoError(t, err)
	require.Len(t, tx.created, 1)

	req := tx.created[0]
	assert.Equal(t, string(txmodel.TypeRevenue), req.Type)
	assert.Equal(t, int64(500_000), req.Amount)
	assert.Equal(t, "광고", req.Category)
	require.NotNil(t, req.Memo)
	assert.Equal(t, "A사 잔금", *req.Memo)
	assert.Equal(t, "2026-10-20", req.Date.Format("2006-01-02"))

	assert.Contains(t, reply, "₩500,000")
	assert.Contains(t, reply, "매출 기록 완료")
}

func TestRespond_BadAmountDoesNotWrite(t *testing.T) {
	tx := &fakeTx{}
	bot := newBot(tx, &fakeSummary{}, &fakeReplier{}, time.Now())

	reply, err := bot.Respond(context.Background(), "지출 많이")
	require.NoError(t, err)
	assert.Empty(t, tx.created)
	assert.Contains(t, reply, "금액")
}

func TestRespond_SettlementTotals(t *testing.T) {
	summary := &stlmodel.SettlementSummary{
		StatusTotals: stlmodel.StatusTotals{
			Pending:    stlmodel.StatusTotal{Amount: 300_000, Count: 1},
			InProgress: stlmodel.StatusTotal{Amount: 500_000, Count: 1},
			Completed:  stlmodel.StatusTotal{Amount: 200_000, Count: 1},
		},
	}
	bot := newBot(&fakeTx{}, &fakeSummary{summary: summary}, &fakeReplier{}, time.Now())

	reply, err := bot.Respond(context.Background(), "정산")
	require.NoError(t, err)
	assert.Contains(t, reply, "미정산: 1건 / ₩300,000")
	assert.Contains(t, reply, "정산요청: 1건 / ₩500,000")
	assert.Contains(t, reply, "정산완료: 1건 / ₩200,000")
	assert.Contains(t, reply, "합계: 3건 / ₩1,000,000")
}

func TestRespond_ThisWeekUsesMondayWindow(t *testing.T) {
	tx := &fakeTx{totals: txmodel.Totals{Revenue: 1_000_000, Expense: 400_000, Profit: 600_000, Count: 3}}
	// Thứ Tư 2026-10-21 10:00 KST
	bot := newBot(tx, &fakeSummary{}, &fakeReplier{}, time.Date(2026, 10, 21, 10, 0, 0, 0, kst))

	reply, err := bot.Respond(context.Background(), "이번주")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 10, 19, 0, 0, 0, 0, kst).Equal(tx.from))
	assert.True(t, time.Date(2026, 10, 26, 0, 0, 0, 0, kst).Equal(tx.to))
	assert.Contains(t, reply, "순이익: ₩600,000")

	_, err = bot.Respond(context.Background(), "this month")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, kst).Equal(tx.from))
	assert.True(t, time.Date(2026, 11, 1, 0, 0, 0, 0, kst).Equal(tx.to))
}

func TestHandleEvent_RepliesInThread(t *testing.T) {
	rep := &fakeReplier{}
	bot := newBot(&fakeTx{}, &fakeSummary{}, rep, time.Now())

	err := bot.HandleEvent(context.Background(), &model.InnerEvent{
		Type: model.EventMessage, User: "U1", Text: "도움말", Channel: "C9", TS: "100.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "C9", rep.channel)
	assert.Equal(t, "100.1", rep.thread)
	assert.Contains(t, rep.text, "사용법")
}

func TestHandleEvent_ServiceErrorStillReplies(t *testing.T) {
	rep := &fakeReplier{}
	bot := newBot(&fakeTx{err: errors.New("db down")}, &fakeSummary{}, rep, time.Now())

	err := bot.HandleEvent(context.Background(), &model.InnerEvent{
		Type: model.EventMessage, Text: "매출 1000", Channel: "C1", TS: "1.1", ThreadTS: "0.5",
	})
	require.Error(t, err)
	assert.Equal(t, "0.5", rep.thread)
	assert.Contains(t, rep.text, "오류")
}

func TestHandleEvent_SkipsBotMessages(t *testing.T) {
	rep := &fakeReplier{}
	bot := newBot(&fakeTx{}, &fakeSummary{}, rep, time.Now())

	require.NoError(t, bot.HandleEvent(context.Background(), &model.InnerEvent{
		Type: model.EventMessage, BotID: "B1", Text: "정산", Channel: "C1",
	}))
	assert.Empty(t, rep.channel)
}
