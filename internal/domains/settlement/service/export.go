package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"agency-erp/internal/domains/settlement/model"
	"agency-erp/internal/shared/utils"
)

const (
	detailSheet  = "정산 내역"
	summarySheet = "요약"
)

// ExportToExcel xuất danh sách settlement (sheet 1) và bảng status totals (sheet 2)
func (s *settlementService) ExportToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	f, err := buildSettlementWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildSettlementWorkbook(rows []*model.SettlementDetail) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", detailSheet)

	headers := []string{"Project", "Client", "Influencer", "Fee", "Status", "Due Date", "Paid Date"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(detailSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(detailSheet, "A1", "G1", headerStyle)
	}

	plain := make([]*model.Settlement, 0, len(rows))
	for i, d := range rows {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(detailSheet, cell(1), d.Project.Name)
		f.SetCellValue(detailSheet, cell(2), d.Project.ClientName)
		f.SetCellValue(detailSheet, cell(3), d.Influencer.Name)
		f.SetCellValue(detailSheet, cell(4), d.Fee)
		f.SetCellValue(detailSheet, cell(5), d.PaymentStatus.Label())
		if d.PaymentDueDate != nil {
			f.SetCellValue(detailSheet, cell(6), utils.FormatDate(*d.PaymentDueDate))
		}
		if d.PaymentDate != nil {
			f.SetCellValue(detailSheet, cell(7), utils.FormatDate(*d.PaymentDate))
		}

		plain = append(plain, &d.Settlement)
	}

	// Sheet 2: status totals
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	totals := Summarize(plain, model.NewDirectory()).StatusTotals
	f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Status", "Count", "Amount"})
	for i, st := range model.AllStatuses {
		bucket := totals.Bucket(st)
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(summarySheet, addr, &[]interface{}{st.Label(), bucket.Count, bucket.Amount})
	}
	f.SetSheetRow(summarySheet, "A5", &[]interface{}{"Total", totals.TotalCount(), totals.TotalAmount()})

	return f, nil
}
