// Package render writes script reports as tables, JSON or YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ivindex/pkg/script"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// defaultMaxEntries caps the entries listed per table cell.
const defaultMaxEntries = 8

// ErrUnknownFormat is returned for an output format Write does not support.
var ErrUnknownFormat = errors.New("unknown output format")

// Options controls rendering.
type Options struct {
	// Format is one of FormatTable, FormatJSON or FormatYAML. Empty means table.
	Format string

	// Color enables ANSI colours in table output.
	Color bool

	// MaxEntries caps the entries listed per table cell; the rest are
	// summarised. Zero means eight. JSON and YAML always list everything.
	MaxEntries int
}

// Write renders report to w.
func Write(w io.Writer, report *script.Report, opts Options) error {
	switch opts.Format {
	case "", FormatTable:
		return writeTable(w, report, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(newDocument(report))
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(newDocument(report))
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

type palette struct {
	title, ok, fail, dim *color.Color
}

// newPalette builds the table colours, forced on or off.
func newPalette(enabled bool) palette {
	p := palette{
		title: color.New(color.Bold, color.FgCyan),
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		dim:   color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.title, p.ok, p.fail, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// writeTable renders the report as a go-pretty table.
func writeTable(w io.Writer, report *script.Report, opts Options) error {
	pal := newPalette(opts.Color)

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	name := report.Name
	if name == "" {
		name = "script"
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"#", "Operation", "Result", "Time"})

	for _, res := range report.Results {
		outcome := pal.ok.Sprint(describe(res, maxEntries))
		if res.Failed() {
			outcome = pal.fail.Sprint("error: " + res.Err.Error())
		}

		tbl.AppendRow(table.Row{res.Step, res.Operation.String(), outcome, pal.dim.Sprint(seconds(res.Duration.Seconds()))})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d ops", len(report.Results)), failures(pal, report.Failures()), seconds(report.Elapsed.Seconds())})

	lat := report.Latency()

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n",
		pal.title.Sprintf("=== %s ===", strings.ToUpper(name)),
		tbl.Render(),
		fmt.Sprintf("size %s, lows %s", humanize.Comma(int64(report.Size)), humanize.Comma(int64(report.LowCount))),
		pal.dim.Sprintf("p50 %s, p95 %s, max %s", seconds(lat.P50.Seconds()), seconds(lat.P95.Seconds()), seconds(lat.Max.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("write table report: %w", err)
	}

	return nil
}

// failures formats the failure count for the footer.
func failures(pal palette, n int) string {
	if n == 0 {
		return pal.ok.Sprint("0 failed")
	}

	return pal.fail.Sprintf("%d failed", n)
}

// describe summarises what an operation returned.
func describe(res script.Result, maxEntries int) string {
	switch {
	case res.Entries != nil || isQuery(res.Operation.Op):
		return entries(res.Entries, maxEntries)
	case res.Keys != nil || res.Operation.Op == script.OpRank:
		return keys(res.Keys)
	case res.Scalar != nil:
		return humanize.Ftoa(*res.Scalar)
	case res.Count != nil:
		return humanize.Comma(int64(*res.Count))
	case res.Found != nil && *res.Found:
		if res.Operation.Op == script.OpMax {
			return "found"
		}

		return "removed"
	case res.Found != nil:
		if res.Operation.Op == script.OpMax {
			return "empty"
		}

		return "not found"
	default:
		return "ok"
	}
}

// isQuery reports whether op returns a list of entries.
func isQuery(op string) bool {
	switch op {
	case script.OpOverlap, script.OpBetween, script.OpStrictlyBetween, script.OpContains,
		script.OpLowest, script.OpHighest, script.OpAll:
		return true
	default:
		return false
	}
}

// entries lists up to maxEntries intervals and summarises the rest.
func entries(list []script.Entry, maxEntries int) string {
	if len(list) == 0 {
		return "none"
	}

	shown := list[:min(len(list), maxEntries)]

	parts := make([]string, 0, len(shown)+1)
	for _, e := range shown {
		parts = append(parts, fmt.Sprintf("[%s, %s] %s", humanize.Ftoa(e.Low), humanize.Ftoa(e.High), e.Value))
	}

	if rest := len(list) - len(shown); rest > 0 {
		parts = append(parts, fmt.Sprintf("+%s more", humanize.Comma(int64(rest))))
	}

	return strings.Join(parts, ", ")
}

// keys lists rank keys.
func keys(list []float64) string {
	if len(list) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(list))
	for _, k := range list {
		parts = append(parts, humanize.Ftoa(k))
	}

	return strings.Join(parts, ", ")
}

// seconds formats a duration with an SI prefix.
func seconds(s float64) string {
	return humanize.SIWithDigits(s, 1, "s")
}
