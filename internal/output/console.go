package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dotcommander/aquarank/internal/scoring"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet   bool
	verbose bool
	styles  consoleStyles
}

type consoleStyles struct {
	header lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	score  lipgloss.Style
	card   lipgloss.Style
	tiers  map[string]lipgloss.Style
}

func newConsoleStyles() consoleStyles {
	return consoleStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		score:  lipgloss.NewStyle().Bold(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
		tiers: map[string]lipgloss.Style{
			"A": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			"B": lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			"C": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			"D": lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			"F": lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:   quiet,
		verbose: verbose,
		styles:  newConsoleStyles(),
	}
}

// Format renders the report for a terminal.
func (f *ConsoleFormatter) Format(w io.Writer, r *Report) error {
	if f.quiet {
		return nil
	}

	f.printThresholds(w, r)
	f.printFeatured(w, r)
	f.printTopPicks(w, r)
	f.printTable(w, r)
	f.printStats(w, r)
	return nil
}

func (f *ConsoleFormatter) printThresholds(w io.Writer, r *Report) {
	t := r.Evaluation.Thresholds
	fmt.Fprintln(w, f.styles.header.Render(r.ProfileLabel()))
	fmt.Fprintf(w, "%s residue ≤ %s · nitrates ≤ %s · sodium ≤ %s\n",
		f.styles.dim.Render("Limits:"), mgL(t.ResidueMax), mgL(t.NitratesMax), mgL(t.SodiumMax))
	if f.verbose && r.Source != "" {
		fmt.Fprintf(w, "%s %s\n", f.styles.dim.Render("Catalog:"), r.Source)
	}
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) printFeatured(w io.Writer, r *Report) {
	fmt.Fprintln(w, f.styles.header.Render("Best pick"))

	best, ok := r.Evaluation.Best()
	if !ok {
		fmt.Fprintln(w, f.styles.dim.Render(msgNoFeatured))
		fmt.Fprintln(w)
		return
	}

	body := fmt.Sprintf("%s\n%s  %s\nCompliant with applied thresholds: %s\nResidue %s • Nitrates %s • Sodium %s",
		f.styles.dim.Render(best.Source),
		f.styles.score.Render(best.Name),
		f.tierStyle(best.Tier).Render(formatScore(best.Score)),
		compliantLabel(best.Compliance),
		f.metric(best, scoring.MetricResidue),
		f.metric(best, scoring.MetricNitrates),
		f.metric(best, scoring.MetricSodium))
	fmt.Fprintln(w, f.styles.card.Render(body))
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) printTopPicks(w io.Writer, r *Report) {
	fmt.Fprintln(w, f.styles.header.Render("Top picks"))

	picks := r.TopPicks()
	if len(picks) == 0 {
		fmt.Fprintln(w, f.styles.dim.Render(msgNoPicks))
		fmt.Fprintln(w)
		return
	}

	for i, item := range picks {
		fmt.Fprintf(w, "  %d. %-28s %s  %s\n",
			i+1, item.Name,
			f.tierStyle(item.Tier).Render(formatScore(item.Score)),
			f.styles.dim.Render(fmt.Sprintf("Residue %s • Nitrates %s • Sodium %s",
				mgL(item.Residue), mgL(item.Nitrates), mgL(item.Sodium))))
	}
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) printTable(w io.Writer, r *Report) {
	ranked := r.Evaluation.Ranked
	if len(ranked) == 0 {
		fmt.Fprintln(w, f.styles.warn.Render(msgNoRows))
		fmt.Fprintln(w)
		return
	}

	metricCols := map[int]scoring.Metric{2: scoring.MetricResidue, 3: scoring.MetricNitrates, 4: scoring.MetricSodium}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.dim).
		Headers("#", "Water", "Residue", "Nitrates", "Sodium", "Score", "Tier", "Source").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(f.styles.header)
			}
			if row < 0 || row >= len(ranked) {
				return base
			}
			item := ranked[row]
			if m, ok := metricCols[col]; ok {
				if item.Compliance.Passed(m) {
					return base.Inherit(f.styles.ok)
				}
				return base.Inherit(f.styles.warn)
			}
			if col == 6 {
				return base.Inherit(f.tierStyle(item.Tier))
			}
			return base
		})

	for i, item := range ranked {
		t.Row(
			"#"+strconv.Itoa(i+1),
			item.Name,
			mgL(item.Residue),
			mgL(item.Nitrates),
			mgL(item.Sodium),
			formatScore(item.Score),
			item.Tier,
			item.Source,
		)
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
}

func (f *ConsoleFormatter) printStats(w io.Writer, r *Report) {
	s := r.Evaluation.Stats
	fmt.Fprintln(w, f.styles.header.Render("Statistics"))
	fmt.Fprintf(w, "  Waters analysed:         %d\n", s.Total)
	fmt.Fprintf(w, "  Matching every limit:    %d\n", s.MatchingAll)
	fmt.Fprintf(w, "  Mean score of top 3:     %s\n", s.MeanTop3)
	fmt.Fprintf(w, "  Residue within limit:    %d/%d\n", s.ResidueOK, s.Total)
	fmt.Fprintf(w, "  Nitrates within limit:   %d/%d\n", s.NitratesOK, s.Total)
	fmt.Fprintf(w, "  Sodium within limit:     %d/%d\n", s.SodiumOK, s.Total)
}

func (f *ConsoleFormatter) metric(item scoring.ScoredSample, m scoring.Metric) string {
	style := f.styles.warn
	if item.Compliance.Passed(m) {
		style = f.styles.ok
	}
	return style.Render(mgL(item.Value(m)))
}

func (f *ConsoleFormatter) tierStyle(tier string) lipgloss.Style {
	if s, ok := f.styles.tiers[tier]; ok {
		return s
	}
	return f.styles.dim
}
