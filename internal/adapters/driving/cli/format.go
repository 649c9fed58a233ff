package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// writeMessage prints one conversation entry with its insight details.
func writeMessage(w io.Writer, msg domain.Message) {
	speaker := "You"
	if msg.Sender == domain.SenderAI {
		speaker = "Insightly"
	}
	fmt.Fprintf(w, "%s [%s]\n", speaker, msg.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(msg.Content, "\n", "\n  "))

	if len(msg.Metrics) > 0 {
		fmt.Fprintln(w, "  Metrics:")
		for _, m := range msg.Metrics {
			fmt.Fprintf(w, "    - %s%s", m.FormatValue(), trendSuffix(m))
			if m.Context != "" {
				fmt.Fprintf(w, " (%s)", m.Context)
			}
			fmt.Fprintln(w)
		}
	}
	if len(msg.Citations) > 0 {
		fmt.Fprintln(w, "  Citations:")
		for _, c := range msg.Citations {
			fmt.Fprintf(w, "    - p.%d", c.Page)
			if c.Section != "" {
				fmt.Fprintf(w, " %s", c.Section)
			}
			fmt.Fprintf(w, ": %q\n", c.Text)
		}
	}
	if len(msg.Charts) > 0 {
		fmt.Fprintln(w, "  Charts:")
		for _, c := range msg.Charts {
			fmt.Fprintf(w, "    - %s\n", c.Summary())
		}
	}
	if msg.Confidence != nil {
		fmt.Fprintf(w, "  Confidence: %.0f%%\n", *msg.Confidence*100)
	}
}

func trendSuffix(m domain.Metric) string {
	var arrow string
	switch m.Trend {
	case domain.TrendUp:
		arrow = " ↑"
	case domain.TrendDown:
		arrow = " ↓"
	}
	if m.ChangePercentage != nil {
		return fmt.Sprintf("%s %+.1f%%", arrow, *m.ChangePercentage)
	}
	return arrow
}

// formatSize renders a byte count for listings.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
