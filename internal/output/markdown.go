package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/aquarank/internal/scoring"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	verbose bool
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{verbose: verbose}
}

// Format writes the report as a Markdown document.
func (f *MarkdownFormatter) Format(w io.Writer, r *Report) error {
	var b strings.Builder
	t := r.Evaluation.Thresholds
	s := r.Evaluation.Stats

	b.WriteString("# Water Ranking Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", r.generatedAt().Format("2006-01-02 15:04:05")))
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("**Catalog:** `%s`\n\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("**Profile:** %s\n\n", r.ProfileLabel()))

	b.WriteString("## Thresholds\n\n")
	b.WriteString("| Metric | Limit |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Residue | %s |\n", mgL(t.ResidueMax)))
	b.WriteString(fmt.Sprintf("| Nitrates | %s |\n", mgL(t.NitratesMax)))
	b.WriteString(fmt.Sprintf("| Sodium | %s |\n", mgL(t.SodiumMax)))
	b.WriteString("\n")

	b.WriteString("## Best Pick\n\n")
	if best, ok := r.Evaluation.Best(); ok {
		b.WriteString(fmt.Sprintf("**%s** (%s) scores **%s**. Compliant with applied thresholds: %s.\n\n",
			best.Name, best.Source, formatScore(best.Score), compliantLabel(best.Compliance)))
	} else {
		b.WriteString("*" + msgNoFeatured + "*\n\n")
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Waters analysed | %d |\n", s.Total))
	b.WriteString(fmt.Sprintf("| Matching every limit | %d |\n", s.MatchingAll))
	b.WriteString(fmt.Sprintf("| Mean score of top 3 | %s |\n", s.MeanTop3))
	b.WriteString(fmt.Sprintf("| Residue within limit | %d/%d |\n", s.ResidueOK, s.Total))
	b.WriteString(fmt.Sprintf("| Nitrates within limit | %d/%d |\n", s.NitratesOK, s.Total))
	b.WriteString(fmt.Sprintf("| Sodium within limit | %d/%d |\n", s.SodiumOK, s.Total))
	b.WriteString("\n")

	b.WriteString("## Ranking\n\n")
	if len(r.Evaluation.Ranked) == 0 {
		b.WriteString("*" + msgNoRows + "*\n")
	} else {
		b.WriteString("| # | Water | Residue | Nitrates | Sodium | Score | Tier | Source |\n")
		b.WriteString("|---|-------|---------|----------|--------|-------|------|--------|\n")
		for i, item := range r.Evaluation.Ranked {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s |\n",
				i+1,
				escapeCell(item.Name),
				markCell(item, scoring.MetricResidue),
				markCell(item, scoring.MetricNitrates),
				markCell(item, scoring.MetricSodium),
				formatScore(item.Score),
				item.Tier,
				escapeCell(item.Source)))
		}
	}

	if f.verbose {
		b.WriteString("\n⚠ marks a value above the active limit.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// markCell flags a value above its limit.
func markCell(item scoring.ScoredSample, m scoring.Metric) string {
	cell := mgL(item.Value(m))
	if !item.Compliance.Passed(m) {
		cell += " ⚠"
	}
	return cell
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
