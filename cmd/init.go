package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/config"
)

var (
	initForce bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .aquarankrc.json with the effective settings",
	Long: `Writes the settings in effect (defaults, environment and flags) to
.aquarankrc.json so later runs pick them up without flags.

An existing file is kept unless --force is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write the config file to")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	path := filepath.Join(initDir, ".aquarankrc.json")
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
