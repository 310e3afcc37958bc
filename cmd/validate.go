package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/catalog"
	"github.com/dotcommander/aquarank/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog against the sample schema",
	Long: `Loads the catalog and checks every record: a non-empty name, a source,
and non-negative residue, nitrates and sodium values. Every failing record
is listed. Exits with status 1 when the catalog cannot be used.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	logger := newLogger(cfg)

	samples, err := loadCatalog(commandContext(cmd), cfg, logger)
	w := cmd.OutOrStdout()
	if err != nil {
		var schemaErr *catalog.SchemaError
		if errors.As(err, &schemaErr) {
			printIssues(w, schemaErr.Issues)
		}
		return err
	}

	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	if len(samples) == 0 {
		fmt.Fprintf(w, "%s %s is valid but empty\n", ok.Render("✓"), cfg.Data)
		return nil
	}
	fmt.Fprintf(w, "%s %s: %d samples valid\n", ok.Render("✓"), cfg.Data, len(samples))
	return nil
}

func printIssues(w io.Writer, issues []catalog.Issue) {
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	for _, issue := range issues {
		fmt.Fprintf(w, "%s %s\n", bad.Render("✘"), issue)
	}
}
