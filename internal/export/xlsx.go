package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX report.
const (
	SheetReturn = "BTW"
	SheetICP    = "ICP"
)

// XLSXWriter renders a report as a workbook with a return sheet and an
// ICP sheet.
type XLSXWriter struct{}

func (x *XLSXWriter) Format() string { return "xlsx" }

func (x *XLSXWriter) Write(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetReturn); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetICP); err != nil {
		return fmt.Errorf("adding ICP sheet: %w", err)
	}

	for i, kv := range summaryRows(rep) {
		if err := setRow(f, SheetReturn, i+1, kv[0], kv[1]); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetReturn, "A", "A", 30)
	_ = f.SetColWidth(SheetReturn, "B", "B", 18)

	header := make([]any, len(icpHeader))
	for i, h := range icpHeader {
		header[i] = h
	}
	if err := setRow(f, SheetICP, 1, header...); err != nil {
		return err
	}
	for i, cust := range rep.ICP.Customers {
		if err := setRow(f, SheetICP, i+2, cust.VATNumber, cust.ClientName, cust.CountryCode,
			cust.NetAmount.InexactFloat64(), cust.TransactionCount); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetICP, "A", "B", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
