package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivindex/pkg/config"
	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
	"github.com/Sumatoshi-tech/ivindex/pkg/render"
	"github.com/Sumatoshi-tech/ivindex/pkg/script"
	"github.com/Sumatoshi-tech/ivindex/pkg/version"
)

// ErrOperationsFailed is returned by run --strict when any operation failed.
var ErrOperationsFailed = errors.New("operations failed")

// RunCommand holds the flags of the run command.
type RunCommand struct {
	globals *GlobalOptions

	format         string
	noColor        bool
	maxEntries     int
	verifyEach     bool
	strict         bool
	rejectInverted bool
	augment        string
}

// NewRunCommand creates the run command.
func NewRunCommand(globals *GlobalOptions) *cobra.Command {
	rc := &RunCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "run <script.yaml|->",
		Short: "Execute an operation script",
		Long: `Seed an interval index from a script and run its operations in order.

Examples:
  ivindex run quotes.yaml
  ivindex run --format json quotes.yaml
  ivindex run --augmentation full --verify-each - < quotes.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.format, "format", "f", "", "Output format: table, json, yaml (default from config)")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colored table output")
	cmd.Flags().IntVar(&rc.maxEntries, "max-entries", 0, "Entries listed per table cell (0 = 8)")
	cmd.Flags().BoolVar(&rc.verifyEach, "verify-each", false, "Check index invariants after every mutation")
	cmd.Flags().BoolVar(&rc.strict, "strict", false, "Exit non-zero when any operation fails")
	cmd.Flags().BoolVar(&rc.rejectInverted, "reject-inverted", false, "Fail inserts with low > high")
	cmd.Flags().StringVar(&rc.augment, "augmentation", "", "maxEnd maintenance: incremental or full (default from config)")

	return cmd
}

// run loads config and the script, executes it and renders the report.
func (rc *RunCommand) run(cmd *cobra.Command, args []string) (err error) {
	cfg, err := config.LoadConfig(rc.globals.ConfigPath)
	if err != nil {
		return err
	}

	if rc.augment != "" {
		if rc.augment != config.AugmentationIncremental && rc.augment != config.AugmentationFull {
			return fmt.Errorf("%w: %q", config.ErrInvalidAugmentation, rc.augment)
		}

		cfg.Index.Augmentation = rc.augment
	}

	if rc.rejectInverted {
		cfg.Index.RejectInverted = true
	}

	data, label, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := script.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	providers, err := initObservability(cfg, rc.globals, version.Version, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(cmd.Context())))
	}()

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	runner := script.NewRunner(script.RunnerOptions{
		Index:      cfg.IndexOptions(),
		Logger:     providers.Logger.With("script", label),
		Tracer:     providers.Tracer,
		Metrics:    red,
		VerifyEach: rc.verifyEach,
	})

	report, err := runner.Run(cmd.Context(), s)
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		err = providers.WriteMetrics()
		if err != nil {
			return err
		}
	}

	if !rc.globals.Quiet {
		err = render.Write(cmd.OutOrStdout(), report, rc.renderOptions(cfg))
		if err != nil {
			return err
		}
	}

	if rc.strict && report.Failures() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrOperationsFailed, report.Failures(), len(report.Results))
	}

	return nil
}

// renderOptions merges command-line overrides into the output section.
func (rc *RunCommand) renderOptions(cfg *config.Config) render.Options {
	format := cfg.Output.Format
	if rc.format != "" {
		format = rc.format
	}

	return render.Options{
		Format:     format,
		Color:      useColor(cfg.Output.Color, rc.noColor),
		MaxEntries: rc.maxEntries,
	}
}
