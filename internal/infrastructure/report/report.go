package report

import (
	"context"

	"github.com/landscape/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Exporter renders a budget document into one file format
type Exporter interface {
	Export(ctx context.Context, doc BudgetDocument) ([]byte, error)
}

var (
	_ Exporter = (*XLSXExporter)(nil)
	_ Exporter = (*PDFRenderer)(nil)
)

// Exporters bundles the renderers used by the budget export endpoint
type Exporters struct {
	XLSX *XLSXExporter
	PDF  *PDFRenderer
}

// NewExporters wires the formatter, HTML template and both renderers
func NewExporters(cfg config.ReportConfig, logger *zap.Logger) (*Exporters, error) {
	f, err := NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, err
	}
	html, err := NewHTMLRenderer(f)
	if err != nil {
		return nil, err
	}
	return &Exporters{
		XLSX: NewXLSXExporter(),
		PDF:  NewPDFRenderer(cfg, html, logger),
	}, nil
}

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ByFormat returns the configured exporters keyed by format
func (e *Exporters) ByFormat() map[string]Exporter {
	out := make(map[string]Exporter, 2)
	if e.XLSX != nil {
		out[FormatXLSX] = e.XLSX
	}
	if e.PDF != nil {
		out[FormatPDF] = e.PDF
	}
	return out
}

// Close releases the PDF renderer's browser
func (e *Exporters) Close() {
	if e.PDF != nil {
		e.PDF.Close()
	}
}
