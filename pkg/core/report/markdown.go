package report

import (
	"fmt"
	"strings"

	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/utils"
)

// Markdown renders the executive summary as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	md := r.Metadata
	es := r.ExecutiveSummary

	name := md.CompanyName
	if name == "" {
		name = "Unnamed company"
	}
	fmt.Fprintf(&b, "# Financial Analysis: %s\n\n", escape(name))
	if md.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s  \n", escape(md.Sector))
	}
	if !md.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s  \n", md.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&b, "Metrics: %d computed of %d, %d benchmarked\n\n",
		r.DefinedMetricCount, r.TotalMetricCount, r.ComparedMetricCount)

	fmt.Fprintf(&b, "## Health Score\n\n**%s / 100** (%s, %s)\n\n",
		Format(calc.Of(r.HealthScore.Score), calc.KindScore), r.HealthScore.Label, r.HealthScore.Rating)

	b.WriteString("## Key Findings\n\n")
	for _, f := range es.KeyFindings {
		fmt.Fprintf(&b, "- %s\n", escape(f))
	}
	b.WriteString("\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Category | Metric | Value | Benchmark | Performance | Rating |\n")
	b.WriteString("|---|---|---:|---:|---|---|\n")
	for _, row := range es.SummaryTable {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			title(row.Category), escape(row.Label), Format(row.Value, row.Kind),
			Format(row.Benchmark, row.Kind), row.Performance, row.Rating)
	}
	b.WriteString("\n")

	b.WriteString("## SWOT\n\n")
	section(&b, "Strengths", es.SWOT.Strengths)
	section(&b, "Weaknesses", es.SWOT.Weaknesses)
	section(&b, "Opportunities", es.SWOT.Opportunities)
	section(&b, "Threats", es.SWOT.Threats)

	b.WriteString("## Recommendations\n\n")
	if len(es.TopRecommendations) == 0 {
		b.WriteString("No recommendations.\n\n")
	} else {
		for i, rec := range es.TopRecommendations {
			fmt.Fprintf(&b, "%d. **[%s]** %s. Expected impact: %s.\n",
				i+1, rec.Priority, escape(strings.TrimSuffix(rec.Recommendation, ".")), escape(rec.ExpectedImpact))
		}
		b.WriteString("\n")
	}

	risk := r.Narrative.Risk
	b.WriteString("## Risk Assessment\n\n")
	fmt.Fprintf(&b, "- Liquidity: %s\n- Credit: %s\n- Solvency: %s\n- Operational: %s\n- Overall: **%s**\n\n",
		risk.Liquidity, risk.Credit, risk.Solvency, risk.Operational, risk.Overall)

	fc := es.Forecast
	b.WriteString("## Forecast\n\n")
	fmt.Fprintf(&b, "- Next-year revenue: %s\n- Revenue growth: %s\n- Expected net margin: %s\n- Expected net income: %s\n\n",
		Format(fc.NextYearRevenue, calc.KindAmount), Format(fc.RevenueGrowth, calc.KindPercent),
		Format(fc.ExpectedNetMargin, calc.KindPercent), Format(fc.ExpectedNetIncome, calc.KindAmount))

	b.WriteString("## Trend\n\n")
	b.WriteString(escape(r.Narrative.Trend.Paragraph))
	b.WriteString("\n")
	return b.String()
}

// HTML renders the Markdown summary to HTML.
func (r *Report) HTML() (string, error) {
	return utils.RenderMarkdownHTML(r.Markdown())
}

func section(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "### %s\n\n", heading)
	if len(items) == 0 {
		b.WriteString("- None identified\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", escape(it))
	}
	b.WriteString("\n")
}

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "<", "&lt;", ">", "&gt;")

func escape(s string) string { return mdEscaper.Replace(s) }
