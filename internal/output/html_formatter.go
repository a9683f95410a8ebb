package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/goccy/go-json"

	"github.com/rpgo/fire-engine/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   formatAmount,
	"fig":    formatFigure,
	"pct":    formatPercent,
	"months": formatMonths,
	"age":    formatAge,
	"date":   formatDate,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	if r.Empty() {
		return nil, ErrEmptyReport
	}
	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = GenerateAssumptions(r)
	}
	data := struct {
		*Report
		Milestone   Milestone
		AllTargets  []domain.TargetResult
		Assumptions []string
	}{r, NextMilestone(targetsOf(r)), sortedTargets(targetsOf(r)), assumptions}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
