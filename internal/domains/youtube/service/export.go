package service

import (
	"github.com/xuri/excelize/v2"

	"agency-erp/internal/domains/youtube/model"
	"agency-erp/internal/shared/utils"
)

const videoSheet = "YouTube"

// BuildWorkbook xuất kết quả search ra xlsx, cùng cột với bảng trên UI
func BuildWorkbook(result *model.SearchResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", videoSheet); err != nil {
		return nil, err
	}

	headers := []interface{}{
		"Title", "Channel", "Subscribers", "Views", "Likes", "Comments",
		"Engagement (%)", "Duration", "Published", "URL",
	}
	if err := f.SetSheetRow(videoSheet, "A1", &headers); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(videoSheet, "A1", "J1", headerStyle)
	}

	for i, r := range result.Items {
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.Title, r.ChannelTitle, r.SubscriberCount, r.ViewCount, r.LikeCount, r.CommentCount,
			r.EngagementRate, r.Duration, utils.FormatDate(r.PublishedAt), r.URL,
		}
		if err := f.SetSheetRow(videoSheet, addr, &row); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(videoSheet, "A", "A", 60)
	f.SetColWidth(videoSheet, "B", "B", 24)
	f.SetColWidth(videoSheet, "J", "J", 45)
	return f, nil
}
