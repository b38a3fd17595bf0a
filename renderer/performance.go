// Package renderer turns the published performance document into markdown
// reports for the terminal.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/perfindex"
)

// Performance is the view model for the performance report. Numbers are
// pre-formatted so the template stays free of formatting logic.
type Performance struct {
	// Week is the label of the latest point in the series.
	Week string `json:"week"`
	// Index is the latest index value, like "104.50".
	Index string `json:"index"`
	// ChangePct is the change over the retained window, like "+4.50%".
	ChangePct string `json:"changePct"`
	// Points is the number of points in the published series.
	Points int `json:"points"`
	// BaseCurrency is the portfolio's reporting currency.
	BaseCurrency string `json:"baseCurrency"`
	// CoveredWeight is the share of weight valued this run, like "100.00%".
	CoveredWeight string `json:"coveredWeight"`
	// Backfilled reports whether the head of the series is synthetic.
	Backfilled bool `json:"backfilled"`
	// GeneratedAt is the document's generation timestamp.
	GeneratedAt string `json:"generatedAt,omitempty"`
	// Holdings is the enriched holdings table.
	Holdings []PerformanceHolding `json:"holdings"`
}

// PerformanceHolding is one row of the holdings table.
type PerformanceHolding struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name,omitempty"`
	Weight     string `json:"weight"`
	AssetClass string `json:"assetClass,omitempty"`
	Region     string `json:"region,omitempty"`
	Price      string `json:"price"`
	Note       string `json:"note,omitempty"`
}

// NewPerformance creates the view model from a published document.
func NewPerformance(d *perfindex.Document) *Performance {
	p := &Performance{
		Index:         fmt.Sprintf("%.2f", d.Latest.Index),
		ChangePct:     perfindex.Percent(d.Latest.ChangePct).SignedString(),
		Points:        len(d.Labels),
		BaseCurrency:  d.BaseCurrency,
		CoveredWeight: perfindex.Percent(d.CoveredWeight * 100).String(),
		Backfilled:    d.Backfilled,
		GeneratedAt:   d.GeneratedAt,
		Holdings:      make([]PerformanceHolding, 0, len(d.Holdings)),
	}
	if len(d.Labels) > 0 {
		p.Week = d.Labels[len(d.Labels)-1].String()
	}

	for _, h := range d.Holdings {
		row := PerformanceHolding{
			Ticker:     h.Ticker,
			Name:       h.Name,
			Weight:     perfindex.Percent(h.Weight * 100).String(),
			AssetClass: h.AssetClass,
			Region:     h.Region,
			Price:      "-",
			Note:       h.Err,
		}
		if h.DisplayPrice != "" {
			row.Price = h.DisplayPrice
		} else if h.Price != nil {
			row.Price = fmt.Sprintf("%.2f", *h.Price)
		}
		p.Holdings = append(p.Holdings, row)
	}
	return p
}

// performanceMarkdownTemplate is the template for rendering a performance
// report in Markdown.
const performanceMarkdownTemplate = `# Portfolio Performance{{ if .Week }} on {{ .Week }}{{ end }}

Index: **{{ .Index }}** ({{ .ChangePct }} over {{ .Points }} weeks)

Covered weight: {{ .CoveredWeight }} in {{ .BaseCurrency }}
{{- if .Backfilled }}

> The head of the series is synthetic history, only the latest points are observed.
{{- end }}

{{- if .Holdings }}

## Holdings

| Ticker | Name | Weight | Price | Note |
|:---|:---|---:|---:|:---|
{{- range .Holdings }}
| {{ .Ticker }} | {{ .Name }} | {{ .Weight }} | {{ .Price }} | {{ .Note }} |
{{- end }}
{{- end }}

{{- if .GeneratedAt }}

Generated at {{ .GeneratedAt }}.
{{- end -}}
`

// RenderPerformance renders the Performance struct to a markdown string using a text/template.
func RenderPerformance(p *Performance) string {
	tmpl := template.Must(template.New("performance").Parse(performanceMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
