package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivindex/pkg/config"
	"github.com/Sumatoshi-tech/ivindex/pkg/script"
)

// ErrInvalidScript is returned by validate when the script has violations.
var ErrInvalidScript = errors.New("script is invalid")

// NewValidateCommand creates the validate command.
func NewValidateCommand(globals *GlobalOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <script.yaml|->",
		Short: "Validate an operation script against the script schema",
		Long: `Check a YAML or JSON operation script against the embedded schema and
list every violation.

Examples:
  ivindex validate quotes.yaml
  ivindex validate - < quotes.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(globals.ConfigPath)
			if err != nil {
				return err
			}

			return runValidate(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], useColor(cfg.Output.Color, noColor), globals.Quiet)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// runValidate schema-checks one script and prints the verdict to out.
func runValidate(out io.Writer, stdin io.Reader, path string, colorize, quiet bool) error {
	data, label, err := readInput(path, stdin)
	if err != nil {
		return err
	}

	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	if !colorize {
		good.DisableColor()
		bad.DisableColor()
	} else {
		good.EnableColor()
		bad.EnableColor()
	}

	err = script.Validate(data)
	if err == nil {
		if !quiet {
			good.Fprintf(out, "script is valid (%s)\n", label)
		}

		return nil
	}

	var schemaErr *script.SchemaError
	if !errors.As(err, &schemaErr) {
		return fmt.Errorf("%s: %w", label, err)
	}

	bad.Fprintf(out, "script validation failed (%s)\n", label)

	for _, v := range schemaErr.Violations {
		bad.Fprintf(out, "  - %s: %s\n", v.Field, v.Description)
	}

	return fmt.Errorf("%w: %d violations", ErrInvalidScript, len(schemaErr.Violations))
}
