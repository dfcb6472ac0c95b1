package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var unitExportHeaders = []string{
	"序号", "变体ID", "状态", "当前位置", "采购价", "售价", "折扣%", "税率%", "预期利润",
	"下单时间", "入库时间", "售出时间", "承运商", "运单号", "备注",
}

// ExportUnits 导出库存单件台账xlsx
func (s *LifecycleService) ExportUnits(ctx context.Context, filters map[string]string) (*excelize.File, error) {
	units, _, err := s.units.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	f := excelize.NewFile()
	sheet := "库存台账"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 写入表头
	for i, h := range unitExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	fmtTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	}

	// 写入数据行
	for rowIdx, u := range units {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), u.SequentialID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), u.VariantID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), u.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), u.CurrentLocation())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), u.PurchasePrice.InexactFloat64())
		if u.SalePrice != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), u.SalePrice.InexactFloat64())
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), u.DiscountPercent.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), u.TaxPercent.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), u.Profit().InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), fmtTime(u.DateOrdered))
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), fmtTime(u.DateReceived))
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), fmtTime(u.DateSold))
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), u.Carrier)
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), u.TrackingNumber)
		f.SetCellValue(sheet, fmt.Sprintf("O%d", row), u.Notes)
	}

	// 列宽
	f.SetColWidth(sheet, "B", "B", 34)
	f.SetColWidth(sheet, "D", "D", 24)
	f.SetColWidth(sheet, "J", "L", 18)

	return f, nil
}
