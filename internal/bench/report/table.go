package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== IIW WHDR Benchmark (delta=%.2f, %s) ===\n", r.Config.Delta, r.Config.ColorSpace)

	for _, jr := range r.Jobs {
		fmt.Fprintf(tw, "\n--- Job: %s ---\n\n", jr.JobName)
		writeAggregatedTable(tw, &jr)
		writeSummaryTable(tw, &jr)
		writePerImageTable(tw, &jr)
	}

	tw.Flush()
}

func writeAggregatedTable(tw *tabwriter.Writer, jr *JobReport) {
	fmt.Fprintf(tw, "Aggregated Results (mean across %d images)\n\n", jr.ImageCount)

	writeHeader(tw, "Method", "WHDR", "WHDR=", "WHDR!=", "Evaluated", "Undefined", "Failed")

	for _, agg := range jr.Aggregated {
		row := []string{
			agg.MethodName,
			fmtScore(agg.WHDR),
			fmtScore(agg.Equal),
			fmtScore(agg.Inequal),
			fmt.Sprintf("%d", agg.Evaluated),
			fmt.Sprintf("%d", agg.Undefined),
			fmt.Sprintf("%d", agg.Failed),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeSummaryTable(tw *tabwriter.Writer, jr *JobReport) {
	fmt.Fprintf(tw, "Per-Image WHDR Distribution\n\n")

	writeHeader(tw, "Method", "Min", "Median", "Mean", "Max", "Stddev", "Samples")

	for _, agg := range jr.Aggregated {
		s := agg.Summary
		if s.Count == 0 {
			fmt.Fprintln(tw, strings.Join([]string{agg.MethodName, "-", "-", "-", "-", "-", "0"}, "\t"))
			continue
		}
		row := []string{
			agg.MethodName,
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Median),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.Stddev),
			fmt.Sprintf("%d", s.Count),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writePerImageTable(tw *tabwriter.Writer, jr *JobReport) {
	fmt.Fprintf(tw, "Per-Image Results\n\n")

	writeHeader(tw, "Image", "Method", "WHDR", "WHDR=", "WHDR!=", "Comparisons", "Time", "Status")

	for _, e := range jr.PerImage {
		row := []string{
			e.ImageID,
			e.MethodName,
			fmtScore(e.WHDR),
			fmtScore(e.Equal),
			fmtScore(e.Inequal),
			fmt.Sprintf("%d", e.Comparisons),
			fmtDuration(e.Duration),
			e.Status(),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtScore(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *v)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
