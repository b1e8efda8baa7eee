package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"agency-erp/internal/domains/slackbot/model"
)

var (
	mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)
	amountSegment  = regexp.MustCompile(`^(\d+(?:\.\d+)?)(억|천만|백만|만|천)?`)
	maxAmount      = decimal.NewFromInt(math.MaxInt64)

	unitMultiplier = map[string]decimal.Decimal{
		"":   decimal.NewFromInt(1),
		"천":  decimal.NewFromInt(1_000),
		"만":  decimal.NewFromInt(10_000),
		"백만": decimal.NewFromInt(1_000_000),
		"천만": decimal.NewFromInt(10_000_000),
		"억":  decimal.NewFromInt(100_000_000),
	}

	recordKeywords = map[string]model.IntentKind{
		"매출":      model.IntentRecordRevenue,
		"수입":      model.IntentRecordRevenue,
		"revenue": model.IntentRecordRevenue,
		"income":  model.IntentRecordRevenue,
		"지출":      model.IntentRecordExpense,
		"비용":      model.IntentRecordExpense,
		"expense": model.IntentRecordExpense,
	}

	queryKeywords = map[string]model.IntentKind{
		"정산":          model.IntentSettlements,
		"settlements": model.IntentSettlements,
		"settlement":  model.IntentSettlements,
		"이번달":         model.IntentThisMonth,
		"이번주":         model.IntentThisWeek,
		"this month":  model.IntentThisMonth,
		"this week":   model.IntentThisWeek,
		"도움말":         model.IntentHelp,
		"help":        model.IntentHelp,
	}
)

// ParseIntent nhận text thô của Slack message (có thể chứa <@BOT> mention)
func ParseIntent(text string) model.Intent {
	cleaned := strings.TrimSpace(mentionPattern.ReplaceAllString(text, " "))
	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return model.Intent{Kind: model.IntentHelp}
	}

	head := strings.ToLower(tokens[0])

	if kind, ok := recordKeywords[head]; ok {
		return parseRecord(kind, tokens[1:])
	}

	// "이번 달" / "this month" là 2 token, so khớp trên cả cụm đã gộp
	lowered := strings.ToLower(strings.Join(tokens, " "))
	if kind, ok := queryKeywords[head]; ok {
		return model.Intent{Kind: kind}
	}
	for _, phrase := range []string{"this month", "this week", "이번 달", "이번 주"} {
		if strings.HasPrefix(lowered, phrase) {
			switch phrase {
			case "this month", "이번 달":
				return model.Intent{Kind: model.IntentThisMonth}
			default:
				return model.Intent{Kind: model.IntentThisWeek}
			}
		}
	}

	return model.Intent{Kind: model.IntentUnknown}
}

func parseRecord(kind model.IntentKind, args []string) model.Intent {
	intent := model.Intent{Kind: kind, Category: model.DefaultCategory}
	if len(args) == 0 {
		intent.Err = fmt.Errorf("%w: missing", model.ErrInvalidAmount)
		return intent
	}

	amount, err := ParseAmount(args[0])
	if err != nil {
		intent.Err = err
		return intent
	}
	intent.Amount = amount

	if len(args) > 1 {
		intent.Category = args[1]
	}
	if len(args) > 2 {
		intent.Memo = strings.Join(args[2:], " ")
	}
	return intent
}

// ParseAmount hiểu 500000, 500,000, ₩500,000, 50만, 50만원, 1.5억, 3천, 1억5000만.
// Kết quả phải là số nguyên dương.
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "₩")
	s = strings.TrimPrefix(s, "￦")
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}

	total := decimal.Zero
	for s != "" {
		m := amountSegment.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
		}
		n, err := decimal.NewFromString(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
		}
		total = total.Add(n.Mul(unitMultiplier[m[2]]))
		s = s[len(m[0]):]
	}

	if !total.Equal(total.Truncate(0)) || !total.IsPositive() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}
	// IntPart tràn int64 mà không báo lỗi
	if total.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}
	return total.IntPart(), nil
}
