package service

import (
	"sort"

	"github.com/google/uuid"

	"agency-erp/internal/domains/settlement/model"
)

// Summarize gom settlement theo status, influencer và project.
//
// Status totals đếm mọi dòng, nên tổng amount luôn bằng tổng fee.
// Dòng nào trỏ tới influencer/project không có trong dir chỉ bị bỏ khỏi
// view tương ứng. Hai danh sách sort giảm dần theo amount, giữ thứ tự
// xuất hiện đầu tiên khi bằng nhau.
func Summarize(rows []*model.Settlement, dir model.Directory) *model.SettlementSummary {
	summary := &model.SettlementSummary{
		InfluencerTotals: []model.InfluencerTotal{},
		ProjectTotals:    []model.ProjectTotal{},
	}

	type influencerAcc struct {
		total    model.InfluencerTotal
		projects map[uuid.UUID]struct{}
	}
	type projectAcc struct {
		total       model.ProjectTotal
		influencers map[uuid.UUID]struct{}
	}

	var (
		influencerOrder []uuid.UUID
		projectOrder    []uuid.UUID
		byInfluencer    = make(map[uuid.UUID]*influencerAcc)
		byProject       = make(map[uuid.UUID]*projectAcc)
	)

	for _, row := range rows {
		if row == nil {
			continue
		}

		// 1. Status
		bucket := summary.StatusTotals.Bucket(model.NormalizeStatus(string(row.PaymentStatus)))
		bucket.Amount += row.Fee
		bucket.Count++

		// 2. Influencer
		if ref, ok := dir.Influencers[row.InfluencerID]; ok {
			acc, seen := byInfluencer[row.InfluencerID]
			if !seen {
				acc = &influencerAcc{
					total:    model.InfluencerTotal{InfluencerID: ref.ID, Name: ref.Name},
					projects: make(map[uuid.UUID]struct{}),
				}
				byInfluencer[row.InfluencerID] = acc
				influencerOrder = append(influencerOrder, row.InfluencerID)
			}
			acc.total.Amount += row.Fee
			acc.projects[row.ProjectID] = struct{}{}
		}

		// 3. Project
		if ref, ok := dir.Projects[row.ProjectID]; ok {
			acc, seen := byProject[row.ProjectID]
			if !seen {
				acc = &projectAcc{
					total:       model.ProjectTotal{ProjectID: ref.ID, Name: ref.Name, ClientName: ref.ClientName},
					influencers: make(map[uuid.UUID]struct{}),
				}
				byProject[row.ProjectID] = acc
				projectOrder = append(projectOrder, row.ProjectID)
			}
			acc.total.Amount += row.Fee
			acc.influencers[row.InfluencerID] = struct{}{}
		}
	}

	for _, id := range influencerOrder {
		acc := byInfluencer[id]
		acc.total.ProjectCount = len(acc.projects)
		summary.InfluencerTotals = append(summary.InfluencerTotals, acc.total)
	}
	for _, id := range projectOrder {
		acc := byProject[id]
		acc.total.InfluencerCount = len(acc.influencers)
		summary.ProjectTotals = append(summary.ProjectTotals, acc.total)
	}

	sort.SliceStable(summary.InfluencerTotals, func(i, j int) bool {
		return summary.InfluencerTotals[i].Amount > summary.InfluencerTotals[j].Amount
	})
	sort.SliceStable(summary.ProjectTotals, func(i, j int) bool {
		return summary.ProjectTotals[i].Amount > summary.ProjectTotals[j].Amount
	})

	return summary
}
