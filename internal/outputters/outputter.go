package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/aquarank/internal/config"
	"github.com/dotcommander/aquarank/internal/output"
)

// Formatter renders a report to a writer.
type Formatter interface {
	Format(w io.Writer, report *output.Report) error
}

// FormatterFactory creates formatters by format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters shipped with aquarank.
type DefaultFormatterFactory struct {
	config *config.Config
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.config.Quiet, f.config.Verbose), nil
	case "json":
		return output.NewJSONFormatter(true), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.config.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
	stdout  io.Writer
}

// NewOutputter creates a new Outputter writing to stdout or the configured
// output file.
func NewOutputter(cfg *config.Config) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: &DefaultFormatterFactory{config: cfg},
		stdout:  os.Stdout,
	}
}

// NewDefaultFormatterFactory returns the built-in factory for cfg.
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{config: cfg}
}

// NewOutputterWithFactory creates an Outputter with a custom factory and
// standard output.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory, stdout io.Writer) *Outputter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Outputter{config: cfg, factory: factory, stdout: stdout}
}

// Format renders the report using the given format.
func (o *Outputter) Format(report *output.Report, format string) error {
	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}

	if o.config.Output == "" {
		return formatter.Format(o.stdout, report)
	}

	file, err := os.Create(o.config.Output)
	if err != nil {
		return fmt.Errorf("error creating output file %s: %w", o.config.Output, err)
	}
	if err := formatter.Format(file, report); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing to file %s: %w", o.config.Output, err)
	}
	return nil
}
