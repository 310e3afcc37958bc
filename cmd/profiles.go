package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/config"
	"github.com/dotcommander/aquarank/internal/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the threshold profiles",
	Long: `Lists the compiled-in threshold profiles in order, from the strictest
(infants) to the most permissive (daily use). The configured profile is
marked with an asterisk.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProfiles(cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(w io.Writer) error {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if cfg.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles.List())
	}

	printProfiles(w, cfg.Profile)
	return nil
}

func printProfiles(w io.Writer, active string) {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dim).
		Headers("", "ID", "Label", "Residue", "Nitrates", "Sodium").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, p := range profiles.List() {
		marker := ""
		if p.ID == active {
			marker = "*"
		}
		t.Row(marker, p.ID, p.Label,
			fmt.Sprintf("%g", p.Thresholds.ResidueMax),
			fmt.Sprintf("%g", p.Thresholds.NitratesMax),
			fmt.Sprintf("%g", p.Thresholds.SodiumMax))
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dim.Render("Limits in mg/L."))
}
