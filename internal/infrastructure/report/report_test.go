package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument(t *testing.T) BudgetDocument {
	t.Helper()
	projectID := uuid.New()
	land, err := budget.NewCategory(projectID, nil, "100", "Land")
	require.NoError(t, err)
	land.SortOrder = 1
	hard, err := budget.NewCategory(projectID, nil, "200", "Hard Costs & Fees")
	require.NoError(t, err)
	hard.SortOrder = 2
	site, err := budget.NewCategory(projectID, hard, "210", "Site Work")
	require.NoError(t, err)

	summary := budget.BuildSummary(
		[]budget.Category{*land, *hard, *site},
		[]budget.CategoryTotal{
			{CategoryID: land.ID, Total: decimal.NewFromInt(1000000), ItemCount: 1},
			{CategoryID: site.ID, Total: decimal.RequireFromString("100000.5"), ItemCount: 2},
			{CategoryID: uuid.New(), Total: decimal.NewFromInt(5), ItemCount: 1},
		},
	)
	return BudgetDocument{
		ProjectName: "Cedar Ridge",
		ProjectType: "master_planned",
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Summary:     summary,
	}
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("", "")
	require.NoError(t, err)

	assert.Equal(t, "USD", f.Currency())
	assert.Equal(t, "1,234,567.89", f.Number(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "USD 0.00", f.Money(decimal.Zero))
	assert.Equal(t, "Master Planned", f.Title("master_planned"))
	assert.Equal(t, "2026-03-14", f.Date(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)))
}

func TestFormatter_Locale(t *testing.T) {
	f, err := NewFormatter("de-DE", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR 1.234,50", f.Money(decimal.RequireFromString("1234.5")))
}

func TestFormatter_Invalid(t *testing.T) {
	_, err := NewFormatter("not a locale!", "USD")
	assert.Error(t, err)

	_, err = NewFormatter("en-US", "DOLLARS")
	assert.Error(t, err)
}

func TestXLSXExporter_Export(t *testing.T) {
	data, err := NewXLSXExporter().Export(context.Background(), sampleDocument(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	raw := excelize.Options{RawCellValue: true}
	cell := func(name string) string {
		v, err := f.GetCellValue(SheetName, name, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	assert.Equal(t, "Code", cell("A1"))
	assert.Equal(t, "Rolled Total", cell("F1"))

	// parents precede children
	assert.Equal(t, "100", cell("A2"))
	assert.Equal(t, "200", cell("A3"))
	assert.Equal(t, "210", cell("A4"))
	assert.Equal(t, "Site Work", cell("B4"))
	assert.Equal(t, "2", cell("C4"))
	assert.Equal(t, "2", cell("D4"))
	assert.Equal(t, "100000.5", cell("F3"))

	assert.Equal(t, "Uncategorized", cell("B5"))
	assert.Equal(t, "5", cell("E5"))
	assert.Equal(t, "Total", cell("B6"))
	assert.Equal(t, "1100005.5", cell("F6"))
}

func TestXLSXExporter_EmptySummary(t *testing.T) {
	doc := BudgetDocument{ProjectName: "Empty", Summary: budget.BuildSummary(nil, nil)}
	data, err := NewXLSXExporter().Export(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
}

func TestXLSXExporter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewXLSXExporter().Export(ctx, sampleDocument(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTMLRenderer_Render(t *testing.T) {
	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)
	r, err := NewHTMLRenderer(f)
	require.NoError(t, err)

	html, err := r.Render(sampleDocument(t))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Cedar Ridge</h1>")
	assert.Contains(t, html, "Master Planned")
	assert.Contains(t, html, "generated 2026-03-14 (USD)")
	assert.Contains(t, html, "Hard Costs &amp; Fees")
	assert.Contains(t, html, `<tr class="level-2"><td>210</td>`)
	assert.Contains(t, html, "100,000.50")
	assert.Contains(t, html, "Uncategorized")
	assert.Contains(t, html, "USD 1,100,005.50")
}

func TestHTMLRenderer_NoUncategorizedRow(t *testing.T) {
	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)
	r, err := NewHTMLRenderer(f)
	require.NoError(t, err)

	html, err := r.Render(BudgetDocument{ProjectName: "Empty", Summary: budget.BuildSummary(nil, nil)})
	require.NoError(t, err)
	assert.NotContains(t, html, "Uncategorized")
	assert.Contains(t, html, "USD 0.00")
}

func TestPDFRenderer_EmptyHTML(t *testing.T) {
	exporters, err := NewExporters(config.ReportConfig{}, nil)
	require.NoError(t, err)
	defer exporters.Close()

	_, err = exporters.PDF.Print(context.Background(), "  ")
	assert.Error(t, err)
	assert.Equal(t, defaultRenderTimeout, exporters.PDF.timeout)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("ws://chrome:9222/devtools/browser/abc"))
	assert.True(t, isRemote("http://chrome:9222"))
	assert.False(t, isRemote("/usr/bin/chromium"))
	assert.False(t, isRemote(""))
}
