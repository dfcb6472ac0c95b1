package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/xuri/excelize/v2"
)

var supplierExportHeaders = []string{
	"编码", "名称", "简称", "国家", "账期(天)", "配送成本", "可靠性分", "账期分", "成本配送分", "综合分",
}

// ExportService 供应商导出服务
type ExportService struct {
	suppliers *repository.SupplierRepository
}

func NewExportService(suppliers *repository.SupplierRepository) *ExportService {
	return &ExportService{suppliers: suppliers}
}

// ExportSuppliers 导出供应商评分表xlsx
func (s *ExportService) ExportSuppliers(ctx context.Context) (*excelize.File, error) {
	suppliers, _, err := s.suppliers.FindAll(ctx, 1, 10000, nil)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	f := excelize.NewFile()
	sheet := "供应商评分"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range supplierExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, sup := range suppliers {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sup.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sup.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sup.ShortName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sup.Country)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sup.CreditDays)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sup.DeliveryCost)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sup.ReliabilityScore)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sup.CreditScore)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), sup.CostDeliveryScore)
		if sup.OverallScore != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *sup.OverallScore)
		}
	}

	f.SetColWidth(sheet, "B", "B", 30)

	return f, nil
}
