package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// resolveItemID matches input against item ids: exact first, then a unique
// prefix.
func resolveItemID(plan *domain.DayPlan, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("item ID is required")
	}
	for _, it := range plan.Items {
		if it.ID == input {
			return it.ID, nil
		}
	}
	var matches []string
	for _, it := range plan.Items {
		if strings.HasPrefix(it.ID, input) {
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no schedule item matches %q on %s", input, plan.Date)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("item ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseStart reads a start hour argument. Starts are not quantized; an
// off-grid value is rejected by the engine like any other bad placement.
func parseStart(s string) (float64, error) {
	return domain.ParseHour(s)
}

// parseDuration reads "1.5", "90m" or "1h30m" as hours.
func parseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "hm") {
		var h, m int
		rest := s
		if before, after, ok := strings.Cut(rest, "h"); ok {
			if _, err := fmt.Sscanf(before, "%d", &h); err != nil {
				return 0, domain.Invalid("duration", "invalid duration %q", s)
			}
			rest = after
		}
		if rest != "" {
			if _, err := fmt.Sscanf(strings.TrimSuffix(rest, "m"), "%d", &m); err != nil || !strings.HasSuffix(rest, "m") {
				return 0, domain.Invalid("duration", "invalid duration %q", s)
			}
		}
		return float64(h) + float64(m)/60, nil
	}
	return domain.ParseHour(s)
}

// printRejected explains a silent no-op. Rejections are not errors.
func printRejected(w io.Writer, d scheduler.Decision) {
	msg := d.Message
	if msg == "" {
		msg = string(d.Reason)
	}
	fmt.Fprintln(w, formatter.Dim("No change: "+msg))
}
