package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/landscape/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

const budgetTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.ProjectName}} budget</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #222; }
h1 { font-size: 16pt; margin-bottom: 2pt; }
.meta { color: #666; margin-bottom: 12pt; }
table { width: 100%; border-collapse: collapse; }
th { text-align: left; border-bottom: 1px solid #444; padding: 4pt; }
td { padding: 3pt 4pt; border-bottom: 1px solid #eee; }
td.num, th.num { text-align: right; white-space: nowrap; }
tr.level-1 td { font-weight: bold; background: #f3f6f0; }
tr.total td { font-weight: bold; border-top: 2px solid #444; }
</style>
</head>
<body>
<h1>{{.ProjectName}}</h1>
<div class="meta">{{if .ProjectType}}{{title .ProjectType}} &middot; {{end}}Budget summary generated {{date .GeneratedAt}} ({{currency}})</div>
<table>
<thead>
<tr><th>Code</th><th>Category</th><th class="num">Items</th><th class="num">Own</th><th class="num">Total</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr class="level-{{.Category.Level}}"><td>{{.Category.Code}}</td><td style="padding-left: {{indent .Category.Level}}pt">{{.Category.Name}}</td><td class="num">{{.ItemCount}}</td><td class="num">{{number .OwnTotal}}</td><td class="num">{{number .RolledTotal}}</td></tr>
{{- end}}
{{- if not .Uncategorized.IsZero}}
<tr><td></td><td>Uncategorized</td><td></td><td class="num">{{number .Uncategorized}}</td><td class="num">{{number .Uncategorized}}</td></tr>
{{- end}}
<tr class="total"><td></td><td>Total</td><td></td><td></td><td class="num">{{money .GrandTotal}}</td></tr>
</tbody>
</table>
</body>
</html>
`

// HTMLRenderer renders the budget summary HTML fed to the PDF printer
type HTMLRenderer struct {
	tmpl *template.Template
}

type budgetView struct {
	BudgetDocument
	Rows          []*budget.SummaryNode
	Uncategorized decimal.Decimal
	GrandTotal    decimal.Decimal
}

// NewHTMLRenderer parses the budget template with the formatter's functions
func NewHTMLRenderer(f *Formatter) (*HTMLRenderer, error) {
	funcs := template.FuncMap{
		"money":    f.Money,
		"number":   f.Number,
		"title":    f.Title,
		"date":     f.Date,
		"currency": f.Currency,
		"indent":   func(level int) int { return 4 + (level-1)*14 },
	}
	tmpl, err := template.New("budget").Funcs(funcs).Parse(budgetTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse budget template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render executes the template for one document
func (r *HTMLRenderer) Render(doc BudgetDocument) (string, error) {
	view := budgetView{
		BudgetDocument: doc,
		Rows:           doc.Summary.Flatten(),
		Uncategorized:  doc.Summary.Uncategorized,
		GrandTotal:     doc.Summary.GrandTotal,
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute budget template: %w", err)
	}
	return buf.String(), nil
}
