package importer

import (
	"fmt"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// ValidateDayFile checks the file before conversion and returns every
// problem found, not just the first. Window fit is not checked here; the
// configured window is applied on import.
func ValidateDayFile(file *DayFile) []error {
	var errs []error

	if file.Version != 0 && file.Version != FormatVersion {
		errs = append(errs, fmt.Errorf("version: unsupported %d (expected %d)", file.Version, FormatVersion))
	}
	if file.Date == "" {
		errs = append(errs, fmt.Errorf("date is required"))
	} else if _, err := domain.ParseDate(file.Date); err != nil {
		errs = append(errs, fmt.Errorf("date: %w", err))
	}

	ids := make(map[string]int)
	for i, it := range file.Schedule {
		errs = append(errs, validateItem(i, it, ids)...)
	}
	if len(errs) > 0 {
		return errs
	}

	// Overlaps only make sense once every item parsed.
	items, err := convertItems(file.Schedule)
	if err != nil {
		return append(errs, err)
	}
	for _, c := range scheduler.FindOverlaps(items) {
		errs = append(errs, fmt.Errorf("schedule: items %s and %s overlap", c.A, c.B))
	}
	return errs
}

func validateItem(i int, it ItemImport, ids map[string]int) []error {
	var errs []error
	field := func(name string) string { return fmt.Sprintf("schedule[%d].%s", i, name) }

	if it.ID != "" {
		if prev, dup := ids[it.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: %q already used by schedule[%d]", field("id"), it.ID, prev))
		}
		ids[it.ID] = i
	}

	start, err := domain.ParseHour(it.Start)
	switch {
	case it.Start == "":
		errs = append(errs, fmt.Errorf("%s is required", field("start")))
	case err != nil:
		errs = append(errs, fmt.Errorf("%s: %w", field("start"), err))
	case !domain.IsHalfHourAligned(start):
		errs = append(errs, fmt.Errorf("%s: %s is not on the half-hour grid", field("start"), it.Start))
	}

	switch {
	case it.Duration < scheduler.MinDuration:
		errs = append(errs, fmt.Errorf("%s: must be at least %g hours", field("duration"), scheduler.MinDuration))
	case !domain.IsHalfHourAligned(it.Duration):
		errs = append(errs, fmt.Errorf("%s: %g is not a multiple of half an hour", field("duration"), it.Duration))
	case err == nil && start+it.Duration > 24:
		errs = append(errs, fmt.Errorf("%s: item runs past midnight", field("duration")))
	}

	if it.ActivityType != "" {
		if _, err := domain.ParseActivityType(it.ActivityType); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field("activity_type"), err))
		}
	}
	return errs
}
