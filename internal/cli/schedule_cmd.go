package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
	"github.com/alexanderramin/timebox/internal/service"
)

func newScheduleCmd(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"s"},
		Short:   "Show and edit the day's timeboxes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSchedule(cmd, app, flags.date)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the schedule",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showSchedule(cmd, app, flags.date)
			},
		},
		newScheduleGenerateCmd(app, flags),
		newScheduleAddCmd(app, flags),
		newScheduleMoveCmd(app, flags),
		newScheduleResizeCmd(app, flags),
		newScheduleLabelCmd(app, flags),
		newScheduleCategoryCmd(app, flags),
		newScheduleRemoveCmd(app, flags),
		newScheduleReconcileCmd(app, flags),
		newScheduleExportCmd(app, flags),
	)
	return cmd
}

func showSchedule(cmd *cobra.Command, app *App, date string) error {
	plan, err := app.Planner.Day(cmd.Context(), date)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(plan.Items))
	return nil
}

// editItem resolves the id argument, applies one engine mutation and
// reports either the new schedule or why nothing changed.
func editItem(cmd *cobra.Command, app *App, date, idArg string, mutate func(e *scheduler.Engine, id string) bool) error {
	ctx := cmd.Context()
	plan, err := app.Planner.Day(ctx, date)
	if err != nil {
		return err
	}
	id, err := resolveItemID(plan, idArg)
	if err != nil {
		return err
	}
	return runEdit(cmd, app, date, func(e *scheduler.Engine) bool { return mutate(e, id) })
}

func runEdit(cmd *cobra.Command, app *App, date string, fn service.EditFunc) error {
	var decision scheduler.Decision
	plan, changed, err := app.Planner.Edit(cmd.Context(), date, func(e *scheduler.Engine) bool {
		ok := fn(e)
		decision = e.LastDecision()
		return ok
	})
	if err != nil {
		return err
	}
	if !changed {
		printRejected(cmd.OutOrStdout(), decision)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(plan.Items))
	return nil
}

func newScheduleGenerateCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Build a full schedule from your goals and settings",
		Long:  "Build a full schedule from your goals and settings. The current schedule is replaced only when generation succeeds.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Timeboxing your day...")
			plan, err := app.Planner.GenerateSchedule(cmd.Context(), flags.date, app.Identity)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(plan.Items))
			return nil
		},
	}
}

func newScheduleAddCmd(app *App, flags *rootFlags) *cobra.Command {
	var (
		duration string
		typeStr  string
		label    string
	)
	cmd := &cobra.Command{
		Use:   "add <start>",
		Short: "Add a timebox, e.g. `schedule add 9:30 --for 1.5 --label \"Write\"`",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStart(args[0])
			if err != nil {
				return err
			}
			dur, err := parseDuration(duration)
			if err != nil {
				return err
			}
			t := domain.ActivityDefault
			if typeStr != "" {
				if t, err = domain.ParseActivityType(typeStr); err != nil {
					return err
				}
			}
			return runEdit(cmd, app, flags.date, func(e *scheduler.Engine) bool {
				item, ok := e.Create(start, dur, t)
				if ok && label != "" {
					e.Relabel(item.ID, label)
				}
				return ok
			})
		},
	}
	cmd.Flags().StringVar(&duration, "for", "1", "Duration in hours or as 90m / 1h30m")
	cmd.Flags().StringVar(&typeStr, "type", "", "Activity type: top-goal, leisure, physical or default")
	cmd.Flags().StringVar(&label, "label", "", "Activity text")
	return cmd
}

func newScheduleMoveCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <start>",
		Short: "Move a timebox, keeping its length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStart(args[1])
			if err != nil {
				return err
			}
			return editItem(cmd, app, flags.date, args[0], func(e *scheduler.Engine, id string) bool {
				return e.Move(id, start)
			})
		},
	}
}

func newScheduleResizeCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <duration>",
		Short: "Change a timebox's length, keeping its start",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dur, err := parseDuration(args[1])
			if err != nil {
				return err
			}
			return editItem(cmd, app, flags.date, args[0], func(e *scheduler.Engine, id string) bool {
				return e.Resize(id, dur)
			})
		},
	}
}

func newScheduleLabelCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "label <id> <text...>",
		Short: "Set a timebox's activity text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			return editItem(cmd, app, flags.date, args[0], func(e *scheduler.Engine, id string) bool {
				return e.Relabel(id, text)
			})
		},
	}
}

func newScheduleCategoryCmd(app *App, flags *rootFlags) *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "category <id> [type]",
		Short: "Set a timebox's activity type, or --auto to classify it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if auto {
				plan, err := app.Planner.Day(cmd.Context(), flags.date)
				if err != nil {
					return err
				}
				id, err := resolveItemID(plan, args[0])
				if err != nil {
					return err
				}
				t, err := app.Planner.Classify(cmd.Context(), flags.date, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Classified as %s.\n", formatter.ActivityBadge(t))
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("give a type (%s) or --auto", typeList())
			}
			t, err := domain.ParseActivityType(args[1])
			if err != nil {
				return err
			}
			return editItem(cmd, app, flags.date, args[0], func(e *scheduler.Engine, id string) bool {
				return e.Recategorize(id, t)
			})
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "Classify from the activity text")
	return cmd
}

func typeList() string {
	types := domain.ActivityTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func newScheduleRemoveCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a timebox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editItem(cmd, app, flags.date, args[0], func(e *scheduler.Engine, id string) bool {
				return e.Delete(id)
			})
		},
	}
}

func newScheduleReconcileCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Pull timeboxes back inside the configured day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Planner.ReconcileWindow(cmd.Context(), flags.date)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Everything already fits the day window."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Adjusted %d item(s).\n", n)
			return showSchedule(cmd, app, flags.date)
		},
	}
}

func newScheduleExportCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Mirror the schedule into Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Calendar == nil {
				return fmt.Errorf("calendar export is not configured")
			}
			ctx := cmd.Context()
			exporter, err := app.Calendar(ctx)
			if err != nil {
				return err
			}
			plan, err := app.Planner.Day(ctx, flags.date)
			if err != nil {
				return err
			}
			res, err := exporter.Export(ctx, flags.date, plan.Items, app.location())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s: %d created, %d updated, %d unchanged, %d deleted.\n",
				flags.date, res.Created, res.Updated, res.Unchanged, res.Deleted)
			return nil
		},
	}
}
