package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/datakit/pkg/datakit/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [values...]",
		Short: "Print mean, median, min, max and count of a sample",
		Long: `Computes descriptive statistics over a numeric sample.

Values are taken from the arguments, or from stdin when no arguments are
given. Commas and whitespace both separate values.

Example:
  datakit stats 10 20 30 40 50
  echo "1,2,3" | datakit stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := readSamples(cmd, args)
			if err != nil {
				return err
			}

			report := a.analyzer().Analyze(cmd.Context(), samples)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, newJSONReport(report))
			}
			if !report.Valid {
				fmt.Fprintln(out, "empty sample")
				return nil
			}
			s := report.Summary
			fmt.Fprintf(out, "count:  %d\n", s.Count)
			fmt.Fprintf(out, "mean:   %s\n", formatFloat(s.Mean))
			fmt.Fprintf(out, "median: %s\n", formatFloat(s.Median))
			fmt.Fprintf(out, "min:    %s\n", formatFloat(s.Min))
			fmt.Fprintf(out, "max:    %s\n", formatFloat(s.Max))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "filter [values...]",
		Short: "Drop values more than N standard deviations from the mean",
		Long: `Removes outliers from a numeric sample, keeping input order.

Samples with fewer than three values are returned unchanged. The threshold
defaults to stats.outlier_threshold from the config (2.0).

Example:
  datakit filter 1 2 3 4 5 100
  datakit filter --threshold 1 2 4 4 4 5 5 7 9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := readSamples(cmd, args)
			if err != nil {
				return err
			}

			var opts []stats.AnalyzerOption
			if cmd.Flags().Changed("threshold") {
				if threshold < 0 || math.IsNaN(threshold) {
					return fmt.Errorf("threshold must be >= 0, got %s", formatFloat(threshold))
				}
				opts = append(opts, stats.WithThreshold(threshold))
			}

			report := a.analyzer(opts...).Analyze(cmd.Context(), samples)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, newJSONReport(report))
			}
			fmt.Fprintln(out, joinFloats(report.Filtered))
			fmt.Fprintf(out, "removed %d of %d (threshold %s)\n",
				report.Removed, len(samples), formatFloat(report.Threshold))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "standard deviations to keep (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func readSamples(cmd *cobra.Command, args []string) ([]float64, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	samples, err := stats.ParseSamples(text)
	if err != nil {
		return nil, fmt.Errorf("parse samples: %w", err)
	}
	return samples, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, " ")
}

// jsonFloat encodes NaN and infinities as strings, which encoding/json
// rejects as numbers. Finite sums of large values can still overflow.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(formatFloat(v))
	}
	return json.Marshal(v)
}

type jsonSummary struct {
	Mean   jsonFloat `json:"mean"`
	Median jsonFloat `json:"median"`
	Min    jsonFloat `json:"min"`
	Max    jsonFloat `json:"max"`
	Count  int       `json:"count"`
}

// jsonReport mirrors stats.Report for --json output.
type jsonReport struct {
	ID        string      `json:"id"`
	Summary   jsonSummary `json:"summary"`
	Valid     bool        `json:"valid"`
	Threshold jsonFloat   `json:"threshold"`
	Filtered  []jsonFloat `json:"filtered"`
	Removed   int         `json:"removed"`
}

func newJSONReport(r stats.Report) jsonReport {
	filtered := make([]jsonFloat, len(r.Filtered))
	for i, v := range r.Filtered {
		filtered[i] = jsonFloat(v)
	}
	return jsonReport{
		ID: r.ID,
		Summary: jsonSummary{
			Mean:   jsonFloat(r.Summary.Mean),
			Median: jsonFloat(r.Summary.Median),
			Min:    jsonFloat(r.Summary.Min),
			Max:    jsonFloat(r.Summary.Max),
			Count:  r.Summary.Count,
		},
		Valid:     r.Valid,
		Threshold: jsonFloat(r.Threshold),
		Filtered:  filtered,
		Removed:   r.Removed,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
