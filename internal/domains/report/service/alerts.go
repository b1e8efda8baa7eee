package service

import (
	"time"

	"agency-erp/internal/domains/report/model"
	stlmodel "agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/shared/utils"
)

// BucketAlerts chia settlement chưa hoàn tất theo số ngày tới hạn.
// Chỉ 4 mốc: 7, 3, 0 ngày và quá hạn (<0). Các ngày khác không tạo alert.
func BucketAlerts(today time.Time, rows []*stlmodel.SettlementDetail) *model.AlertGroups {
	groups := &model.AlertGroups{
		Overdue: []model.AlertItem{},
		DDay:    []model.AlertItem{},
		D3:      []model.AlertItem{},
		D7:      []model.AlertItem{},
	}

	for _, row := range rows {
		if row == nil || row.PaymentDueDate == nil || row.PaymentStatus.IsCompleted() {
			continue
		}

		days := DaysUntil(today, *row.PaymentDueDate)
		item := model.AlertItem{
			SettlementID:   row.ID,
			ProjectName:    row.Project.Name,
			InfluencerName: row.Influencer.Name,
			Fee:            row.Fee,
			DueDate:        utils.FormatDate(*row.PaymentDueDate),
			DaysLeft:       days,
		}

		switch {
		case days < 0:
			groups.Overdue = append(groups.Overdue, item)
		case days == 0:
			groups.DDay = append(groups.DDay, item)
		case days == 3:
			groups.D3 = append(groups.D3, item)
		case days == 7:
			groups.D7 = append(groups.D7, item)
		}
	}
	return groups
}
