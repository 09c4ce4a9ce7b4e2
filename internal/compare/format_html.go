package compare

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": htmlCurrency,
	"pct":  FormatPercent,
}).Parse(htmlTemplateSource))

// htmlCurrency accepts both values and pointers, as projections carry optional amounts.
func htmlCurrency(v any) string {
	switch d := v.(type) {
	case decimal.Decimal:
		return FormatCOP(d)
	case *decimal.Decimal:
		if d == nil {
			return ""
		}
		return FormatCOP(*d)
	default:
		return ""
	}
}

func (h HTMLFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	eligible, _ := result.Simple.Eligible()
	data := struct {
		*domain.ComparisonResult
		SimpleEligible *domain.SimpleEligible
	}{result, eligible}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
