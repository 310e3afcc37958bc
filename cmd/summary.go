package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/scoring"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a compact summary of the catalog against the active thresholds",
	Long: `Scores the catalog against the active thresholds and prints a boxed summary:
how many waters meet each limit, the tier distribution and the best pick.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSummary(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// CatalogSummary holds aggregated data for the summary report
type CatalogSummary struct {
	Profile    string
	Thresholds scoring.ThresholdSet
	Stats      scoring.Stats
	TierCounts map[string]int
	Best       *scoring.ScoredSample
}

func runSummary(cmd *cobra.Command) error {
	s, err := newSession(commandContext(cmd))
	if err != nil {
		return err
	}

	r := s.report()
	summary := buildSummary(r.Evaluation, r.ProfileLabel())
	printSummaryReport(cmd.OutOrStdout(), summary)
	return nil
}

func buildSummary(eval scoring.Evaluation, profile string) *CatalogSummary {
	summary := &CatalogSummary{
		Profile:    profile,
		Thresholds: eval.Thresholds,
		Stats:      eval.Stats,
		TierCounts: make(map[string]int),
	}
	for _, item := range eval.Ranked {
		summary.TierCounts[item.Tier]++
	}
	if best, ok := eval.Best(); ok {
		summary.Best = &best
	}
	return summary
}

// printStyles holds all the styles used in the summary report.
type printStyles struct {
	header lipgloss.Style
	tierA  lipgloss.Style
	tierB  lipgloss.Style
	tierC  lipgloss.Style
	tierDF lipgloss.Style
	dim    lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		tierA:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tierB:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		tierC:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tierDF: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func printSummaryReport(w io.Writer, summary *CatalogSummary) {
	styles := newPrintStyles()

	printReportHeader(w, styles)
	printCatalogCounts(w, summary)
	printLimitCompliance(w, summary, styles)
	printTierDistribution(w, summary, styles)
	printBestPick(w, summary, styles)
	printReportFooter(w, styles)
}

func printReportHeader(w io.Writer, styles printStyles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Render("╔═══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, styles.header.Render("║                 WATER CATALOG SUMMARY                     ║"))
	fmt.Fprintln(w, styles.header.Render("╠═══════════════════════════════════════════════════════════╣"))
}

func printCatalogCounts(w io.Writer, summary *CatalogSummary) {
	fmt.Fprintf(w, "║ Profile: %-48s ║\n", truncate(summary.Profile, 48))
	fmt.Fprintf(w, "║ Waters Analyzed: %-40d ║\n", summary.Stats.Total)
	fmt.Fprintf(w, "║   Matching every limit: %-5d │ Mean score of top 3: %-5s ║\n",
		summary.Stats.MatchingAll, summary.Stats.MeanTop3)
}

func printLimitCompliance(w io.Writer, summary *CatalogSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ LIMITS MET                                                ║")

	total := summary.Stats.Total
	rows := []struct {
		label string
		limit float64
		count int
	}{
		{"Residue ", summary.Thresholds.ResidueMax, summary.Stats.ResidueOK},
		{"Nitrates", summary.Thresholds.NitratesMax, summary.Stats.NitratesOK},
		{"Sodium  ", summary.Thresholds.SodiumMax, summary.Stats.SodiumOK},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "║   %s ≤ %-7g %3d/%-3d  %s                ║\n",
			row.label, row.limit, row.count, total, renderBar(row.count, total, "10"))
	}
}

func printTierDistribution(w io.Writer, summary *CatalogSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ SCORE DISTRIBUTION                                        ║")

	total := summary.Stats.Total
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}

	aCount := summary.TierCounts["A"]
	bCount := summary.TierCounts["B"]
	cCount := summary.TierCounts["C"]
	dfCount := summary.TierCounts["D"] + summary.TierCounts["F"]

	fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                     ║\n",
		styles.tierA.Render("A (85-100)"), aCount, pct(aCount), renderBar(aCount, total, "10"))
	fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                     ║\n",
		styles.tierB.Render("B (70-84) "), bCount, pct(bCount), renderBar(bCount, total, "12"))
	fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                     ║\n",
		styles.tierC.Render("C (50-69) "), cCount, pct(cCount), renderBar(cCount, total, "3"))
	fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                     ║\n",
		styles.tierDF.Render("D/F (<50) "), dfCount, pct(dfCount), renderBar(dfCount, total, "9"))
}

func printBestPick(w io.Writer, summary *CatalogSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ BEST PICK                                                 ║")

	if summary.Best == nil {
		fmt.Fprintf(w, "║   %-55s ║\n", "No data available for these thresholds.")
		return
	}
	best := summary.Best
	fmt.Fprintf(w, "║   %-40s %s %5.1f/100   ║\n",
		truncate(best.Name, 40), tierStyle(styles, best.Tier).Render(best.Tier), best.Score)
	if best.Source != "" {
		fmt.Fprintf(w, "║   %s ║\n", styles.dim.Render(fmt.Sprintf("%-55s", truncate(best.Source, 55))))
	}
}

func printReportFooter(w io.Writer, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╚═══════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(w)
}

func tierStyle(styles printStyles, tier string) lipgloss.Style {
	switch tier {
	case "A":
		return styles.tierA
	case "B":
		return styles.tierB
	case "C":
		return styles.tierC
	default:
		return styles.tierDF
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func renderBar(count, total int, color string) string {
	if total == 0 {
		return ""
	}
	barWidth := 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}
