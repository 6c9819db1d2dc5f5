package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/poiconv/internal/core"
)

const rule = "========================================"

// printSuccess writes the end-of-run banner.
func printSuccess(w io.Writer, r *core.ConversionResult) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Conversion complete")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Input:     %s (%s, %s)\n", r.InputPath, humanize.Bytes(uint64(r.InputBytes)), r.Encoding)
	fmt.Fprintf(w, "Output:    %s (%s, %s)\n", r.OutputPath, humanize.Bytes(uint64(r.OutputBytes)), r.Shape)
	fmt.Fprintf(w, "Records:   %s written, %s skipped of %s rows\n",
		humanize.Comma(int64(r.Accepted)), humanize.Comma(int64(r.Skipped())), humanize.Comma(int64(r.TotalRows)))
	fmt.Fprintf(w, "Size:      %+.1f%%\n", r.DeltaPercent)

	if len(r.Columns) > 0 {
		fmt.Fprintf(w, "Columns:   %s\n", strings.Join(r.Columns, ", "))
	}
	if r.Skipped() > 0 {
		counts := r.RejectionCounts()
		fmt.Fprintf(w, "Rejected:  %d shape, %d coercion, %d semantic\n",
			counts[core.RejectShape], counts[core.RejectCoercion], counts[core.RejectSemantic])
	}
	if r.RejectsPath != "" {
		fmt.Fprintf(w, "Rejects:   %s\n", r.RejectsPath)
	}
	if r.CompressedPath != "" {
		fmt.Fprintf(w, "Zstd:      %s (%s)\n", r.CompressedPath, humanize.Bytes(uint64(r.CompressedBytes)))
	}
	fmt.Fprintf(w, "Duration:  %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, rule)
}

// printFailure writes the failure banner, the user-facing message and the
// full error chain.
func printFailure(w io.Writer, err error) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Conversion failed")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "Rerun with LOG_LEVEL=debug and report the log output.")
	}
	fmt.Fprintln(w)
	for i, msg := range core.ErrorChain(err) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", i), msg)
	}
	fmt.Fprintln(w, rule)
}
