package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/aquarank/internal/catalog"
	"github.com/dotcommander/aquarank/internal/config"
	"github.com/dotcommander/aquarank/internal/output"
	"github.com/dotcommander/aquarank/internal/outputters"
	"github.com/dotcommander/aquarank/internal/scoring"
	"github.com/dotcommander/aquarank/internal/thresholds"
)

// session is the state of one run: the catalog loaded once and the
// active thresholds.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	samples []scoring.Sample
	state   *thresholds.State
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newSession loads the configuration and the catalog, then builds the
// threshold state from the profile and any overrides.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	logger := newLogger(cfg)

	state, err := thresholds.NewFromProfile(cfg.Profile, thresholds.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := state.Apply(cfg.Thresholds.Overrides()); err != nil {
		return nil, err
	}

	samples, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, samples: samples, state: state}, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]scoring.Sample, error) {
	loader, err := catalog.NewLoader(catalog.WithTimeout(cfg.Timeout), catalog.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	samples, err := loader.Load(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("unable to load data: %w", err)
	}
	return samples, nil
}

// report evaluates the catalog against the active thresholds.
func (s *session) report() *output.Report {
	return &output.Report{
		Source:      s.cfg.Data,
		ProfileID:   s.state.ProfileID(),
		Evaluation:  scoring.Evaluate(s.samples, s.state.Active()),
		Top:         s.cfg.Top,
		GeneratedAt: time.Now(),
	}
}

// render evaluates and writes the report in the configured format.
func (s *session) render(w io.Writer) error {
	o := outputters.NewOutputterWithFactory(s.cfg, outputters.NewDefaultFormatterFactory(s.cfg), w)
	if err := o.Format(s.report(), s.cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
