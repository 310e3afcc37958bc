package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/scoring"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Adjust thresholds and watch the ranking update",
	Long: `Loads the catalog once and reads commands from standard input. Every
accepted change re-renders the report.

Commands:
  profile <id>            switch to a profile (alias: p)
  set <metric> <value>    set one limit in mg/L (residue, nitrates, sodium)
  show                    render the report again
  profiles                list the profiles
  help                    show this list
  quit                    leave (alias: exit, or end of input)`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInteractiveCmd(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractiveCmd(cmd *cobra.Command) error {
	s, err := newSession(commandContext(cmd))
	if err != nil {
		return err
	}
	// Reports go to the terminal, never to --output.
	s.cfg.Output = ""
	return runInteractive(s, cmd.InOrStdin(), cmd.OutOrStdout())
}

const interactiveHelp = `profile <id> | set <metric> <value> | show | profiles | help | quit`

// runInteractive renders once, then applies one command per line until
// quit or end of input. Rejected commands are reported and the loop
// goes on with the previous thresholds.
func runInteractive(s *session, in io.Reader, out io.Writer) error {
	var renderErr error
	s.state.Subscribe(func(scoring.ThresholdSet) {
		if err := s.render(out); err != nil {
			renderErr = err
		}
	})

	if err := s.render(out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		quit, err := dispatch(s, fields, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if renderErr != nil {
			return renderErr
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func dispatch(s *session, fields []string, out io.Writer) (bool, error) {
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(out, interactiveHelp)
	case "show":
		return false, s.render(out)
	case "profiles":
		printProfiles(out, s.state.ProfileID())
	case "profile", "p":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: profile <id>")
		}
		return false, s.state.SetProfile(fields[1])
	case "set":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: set <metric> <value>")
		}
		m, err := scoring.ParseMetric(fields[1])
		if err != nil {
			return false, err
		}
		v, err := strconv.ParseFloat(strings.Replace(fields[2], ",", ".", 1), 64)
		if err != nil {
			return false, fmt.Errorf("invalid value %q: not a number", fields[2])
		}
		return false, s.state.SetField(m, v)
	default:
		return false, fmt.Errorf("unknown command %q (%s)", fields[0], interactiveHelp)
	}
	return false, nil
}
