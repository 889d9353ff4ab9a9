package writer

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

const (
	DefaultSheetName  = "Transactions"
	DefaultTableName  = "BankTransactions"
	DefaultTableStyle = "TableStyleMedium9"

	// numFmtTwoDecimals is the built-in "0.00" number format.
	numFmtTwoDecimals = 2
)

// XLSXWriter writes transactions to a single-sheet workbook with the data
// registered as a styled table.
type XLSXWriter struct {
	SheetName  string
	TableName  string
	TableStyle string
}

// NewXLSXWriter returns a writer with the default sheet and table names.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{
		SheetName:  DefaultSheetName,
		TableName:  DefaultTableName,
		TableStyle: DefaultTableStyle,
	}
}

func (w *XLSXWriter) Ext() string { return ".xlsx" }

// Write renders the workbook to out. An empty txns produces a sheet with
// only the header row.
func (w *XLSXWriter) Write(out io.Writer, txns []models.NormalizedTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, txn := range txns {
		row := i + 2
		if err := f.SetCellStr(sheet, cell(1, row), txn.Date); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := f.SetCellStr(sheet, cell(2, row), txn.Description); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := setNumber(f, sheet, cell(3, row), txn.Amount); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := setNumber(f, sheet, cell(4, row), txn.Balance); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	lastRow := len(txns) + 1
	if len(txns) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
		if err != nil {
			return fmt.Errorf("failed to create number style: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell(3, 2), cell(4, lastRow), style); err != nil {
			return fmt.Errorf("failed to apply number style: %w", err)
		}
	}

	// A table needs at least one row below its header.
	tableEnd := lastRow
	if tableEnd < 2 {
		tableEnd = 2
	}
	name := w.TableName
	if name == "" {
		name = DefaultTableName
	}
	tableStyle := w.TableStyle
	if tableStyle == "" {
		tableStyle = DefaultTableStyle
	}
	stripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:          cell(1, 1) + ":" + cell(len(Header), tableEnd),
		Name:           name,
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("failed to add table %q: %w", name, err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setNumber(f *excelize.File, sheet, axis string, v decimal.NullDecimal) error {
	if !v.Valid {
		return nil
	}
	return f.SetCellFloat(sheet, axis, v.Decimal.InexactFloat64(), 2, 64)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
