package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/HaseeebA/volley/internal/dispatch"
)

// timestampLayout is the wall-clock stamp printed after each send.
const timestampLayout = "2006-01-02 15:04:05"

// Formatter renders dispatch results and batch summaries as text.
type Formatter struct {
	Verbose bool
	NoColor bool
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
	}
}

// FormatResult formats one completed send for display.
//
// The default block is four lines plus a trailing blank line:
//
//	Worker: worker-1
//	Response for UID FEe6qKyrn2: {"status":"sent"}
//	Execution time: 0.42 seconds
//	Timestamp: 2025-03-01 10:15:04
//
// Failed transports swap the response line for an error line. Verbose
// mode appends status, timing, and response check details before the
// blank line.
func (f *Formatter) FormatResult(r *dispatch.Result) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("Worker: %s\n", r.WorkerName()))

	if r.Err != nil {
		errColor := color.New(color.FgRed)
		if f.NoColor {
			errColor.DisableColor()
		}
		buf.WriteString(errColor.Sprintf("Error for UID %s: %s", r.Task.Message.Token, r.Err))
		buf.WriteString("\n")
	} else {
		buf.WriteString(fmt.Sprintf("Response for UID %s: %s\n", r.Task.Message.Token, r.Body))
	}

	buf.WriteString(fmt.Sprintf("Execution time: %.2f seconds\n", r.Elapsed.Seconds()))
	buf.WriteString(fmt.Sprintf("Timestamp: %s\n", r.End.Format(timestampLayout)))

	if f.Verbose {
		f.writeDetails(&buf, r)
	}

	buf.WriteString("\n")
	return buf.String()
}

// writeDetails appends the verbose block for a single result.
func (f *Formatter) writeDetails(buf *strings.Builder, r *dispatch.Result) {
	if r.Status != 0 {
		statusColor := color.New(color.Bold)
		switch {
		case r.Status >= 200 && r.Status < 300:
			statusColor.Add(color.FgGreen)
		case r.Status >= 300 && r.Status < 400:
			statusColor.Add(color.FgYellow)
		default:
			statusColor.Add(color.FgRed)
		}
		if f.NoColor {
			statusColor.DisableColor()
		}
		buf.WriteString(fmt.Sprintf("  Status: %s\n", statusColor.Sprintf("%d", r.Status)))
	}

	if r.Err == nil {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", r.Timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", r.Timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", r.Timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", r.Timing.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", r.Timing.ContentTransferTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", r.Timing.TotalTime.Milliseconds()))
	}

	if r.Check == nil {
		return
	}

	if len(r.Check.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		names := make([]string, 0, len(r.Check.Extracted))
		for name := range r.Check.Extracted {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", name, r.Check.Extracted[name]))
		}
	}

	if r.Check.OK() {
		buf.WriteString(fmt.Sprintf("  %s response check passed\n", SuccessIcon(f.NoColor)))
	} else {
		for _, violation := range r.Check.Violations {
			buf.WriteString(fmt.Sprintf("  %s %s\n", ErrorIcon(f.NoColor), violation))
		}
	}
}

// FormatSummary formats the aggregate outcome of a batch.
func (f *Formatter) FormatSummary(b *dispatch.BatchResult) string {
	var buf strings.Builder

	if b.Failed == 0 {
		okColor := color.New(color.FgGreen)
		if f.NoColor {
			okColor.DisableColor()
		}
		buf.WriteString(okColor.Sprint("All messages sent!"))
		buf.WriteString("\n")
	} else {
		buf.WriteString(fmt.Sprintf("%s %d of %d messages failed\n",
			ErrorIcon(f.NoColor), b.Failed, len(b.Results)))
	}

	buf.WriteString(fmt.Sprintf("Total execution time: %.2f seconds\n", b.Elapsed.Seconds()))

	if f.Verbose && b.Latency.Latency.Count > 0 {
		buf.WriteString("\nLatency Distribution:\n")
		buf.WriteString(fmt.Sprintf("  Min:       %s\n", formatDurationShort(b.Latency.Latency.Min)))
		buf.WriteString(fmt.Sprintf("  P50:       %s\n", formatDurationShort(b.Latency.Latency.P50)))
		buf.WriteString(fmt.Sprintf("  P90:       %s\n", formatDurationShort(b.Latency.Latency.P90)))
		buf.WriteString(fmt.Sprintf("  P95:       %s\n", formatDurationShort(b.Latency.Latency.P95)))
		buf.WriteString(fmt.Sprintf("  P99:       %s\n", formatDurationShort(b.Latency.Latency.P99)))
		buf.WriteString(fmt.Sprintf("  Max:       %s\n", formatDurationShort(b.Latency.Latency.Max)))
	}

	return buf.String()
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
