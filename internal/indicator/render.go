package indicator

import (
	"fmt"
	"strings"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

// Render formats a report as the text block consumed downstream: a header
// naming the indicator and date span, one line per calendar day newest
// first, and a source trailer.
func Render(report *models.IndicatorReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s values from %s to %s:\n\n", report.Indicator, report.From, report.To)
	for _, entry := range report.Entries {
		fmt.Fprintf(&b, "%s: %s\n", entry.Date, entry.Value)
	}
	b.WriteString("\n\nSource: TradingView webhook data")

	return b.String()
}
