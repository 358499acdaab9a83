package cli

import (
	"fmt"
	"strings"

	"github.com/caudal-io/caudal/internal/model"
)

// RenderAlert formats a single alert for terminal display.
func RenderAlert(alert *model.Alert) string {
	style := InfoStyle
	switch alert.Severity {
	case model.SeverityCritical:
		style = CriticalStyle
	case model.SeverityWarning:
		style = WarningStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("[%s] %s", alert.Severity, alert.Title)))
	b.WriteString("\n  ")
	b.WriteString(alert.Message)
	b.WriteString("\n  ")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s · %s", alert.RuleType, alert.CreatedAt.Format("2006-01-02 15:04"))))
	return b.String()
}

// RenderBundle formats a projection run summary for terminal display.
func RenderBundle(bundle *model.ScenarioBundle) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Cash projection"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Current cash: %s\n", bundle.CurrentCash.StringFixed(2)))

	if n := len(bundle.Realistic); n > 0 {
		last := bundle.Realistic[n-1]
		b.WriteString(fmt.Sprintf("Day %d realistic: %s (confidence %.2f)\n",
			last.DayIndex, last.Cash.StringFixed(2), last.Confidence))
		b.WriteString(fmt.Sprintf("Day %d band: %s … %s\n",
			last.DayIndex,
			bundle.Pesimistic[n-1].Cash.StringFixed(2),
			bundle.Optimistic[n-1].Cash.StringFixed(2)))
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("history %dd · %d patterns · v%s",
		bundle.Metadata.HistoryDays,
		bundle.Metadata.PatternsDetected,
		bundle.Metadata.AlgorithmVersion)))
	return b.String()
}
