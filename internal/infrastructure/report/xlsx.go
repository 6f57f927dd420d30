package report

import (
	"context"
	"fmt"

	"github.com/landscape/backend/internal/domain/budget"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the budget summary
const SheetName = "Budget"

// moneyFormat is the built-in "#,##0.00" number format
const moneyFormat = 4

var xlsxHeaders = []string{"Code", "Category", "Level", "Items", "Own Total", "Rolled Total"}

// XLSXExporter writes budget summaries as Excel workbooks
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSXExporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

type xlsxStyles struct {
	header int
	money  int
	total  int
	indent [budget.MaxLevel + 1]int
}

// Export renders one row per category, parents before children, followed by
// an uncategorized row when needed and the grand total.
func (e *XLSXExporter) Export(ctx context.Context, doc BudgetDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.ProjectName + " budget",
		Creator: "landscape",
		Created: doc.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return nil, fmt.Errorf("set document properties: %w", err)
	}

	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, err
	}

	for i, h := range xlsxHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", styles.header); err != nil {
		return nil, err
	}

	row := 2
	for _, n := range doc.Summary.Flatten() {
		values := []any{
			n.Category.Code,
			n.Category.Name,
			n.Category.Level,
			n.ItemCount,
			n.OwnTotal.Round(2).InexactFloat64(),
			n.RolledTotal.Round(2).InexactFloat64(),
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		level := min(max(n.Category.Level, 1), budget.MaxLevel)
		if err := f.SetCellStyle(SheetName, cellName(2, row), cellName(2, row), styles.indent[level]); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cellName(5, row), cellName(6, row), styles.money); err != nil {
			return nil, err
		}
		row++
	}

	if !doc.Summary.Uncategorized.IsZero() {
		v := doc.Summary.Uncategorized.Round(2).InexactFloat64()
		if err := setRow(f, row, []any{"", "Uncategorized", "", "", v, v}); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cellName(5, row), cellName(6, row), styles.money); err != nil {
			return nil, err
		}
		row++
	}

	grand := doc.Summary.GrandTotal.Round(2).InexactFloat64()
	if err := setRow(f, row, []any{"", "Total", "", "", "", grand}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, cellName(1, row), cellName(6, row), styles.total); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(SheetName, "A", "A", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 42); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "E", "F", 18); err != nil {
		return nil, err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDE7D6"}},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: moneyFormat}); err != nil {
		return s, fmt.Errorf("money style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		NumFmt: moneyFormat,
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return s, fmt.Errorf("total style: %w", err)
	}
	for level := 1; level <= budget.MaxLevel; level++ {
		style := &excelize.Style{Alignment: &excelize.Alignment{Indent: (level - 1) * 2}}
		if level == 1 {
			style.Font = &excelize.Font{Bold: true}
		}
		if s.indent[level], err = f.NewStyle(style); err != nil {
			return s, fmt.Errorf("indent style: %w", err)
		}
	}
	return s, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		if err := setCell(f, i+1, row, v); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	if err := f.SetCellValue(SheetName, cellName(col, row), v); err != nil {
		return fmt.Errorf("set cell %s: %w", cellName(col, row), err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
