package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/gcal"
	"github.com/alexanderramin/timebox/internal/service"
)

// CalendarExporter mirrors a day's schedule into an external calendar.
type CalendarExporter interface {
	Export(ctx context.Context, date string, items []domain.ScheduleItem, loc *time.Location) (gcal.ExportResult, error)
}

// SecretStore persists secrets such as the model API key.
type SecretStore interface {
	Set(name, value string) error
	Delete(name string) error
}

// App holds the services and host hooks used by CLI commands.
type App struct {
	Settings service.SettingsService
	Planner  service.PlannerService

	// Calendar is built on demand because it needs network credentials.
	Calendar func(ctx context.Context) (CalendarExporter, error)
	// Authorize runs the Google sign-in flow, printing the consent URL to out.
	Authorize func(ctx context.Context, out io.Writer) error
	Secrets   SecretStore

	// Identity keys the generation rate limit.
	Identity string
	Location *time.Location
	Now      func() time.Time
	Logger   *log.Logger

	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *App) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	date  string
	debug bool
}

// NewRootCmd creates the top-level "timebox" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "timebox",
		Short:         "Plan your day in half-hour timeboxes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.debug {
				app.logger().SetLevel(log.DebugLevel)
			}
			if flags.date == "" {
				flags.date = app.now().In(app.location()).Format(domain.DateLayout)
			}
			_, err := domain.ParseDate(flags.date)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd, app, flags.date)
			}
			return showDay(cmd, app, flags.date)
		},
	}
	root.PersistentFlags().StringVar(&flags.date, "date", "", "Day to work on (YYYY-MM-DD, default today)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Log debug output to stderr")

	root.AddCommand(
		newSettingsCmd(app, flags),
		newDayCmd(app, flags),
		newDumpCmd(app, flags),
		newGoalsCmd(app, flags),
		newScheduleCmd(app, flags),
		newAuthCmd(app),
		newTUICmd(app, flags),
	)

	return root
}
