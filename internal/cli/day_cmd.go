package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/importer"
)

func showDay(cmd *cobra.Command, app *App, date string) error {
	plan, err := app.Planner.Day(cmd.Context(), date)
	if err != nil {
		return err
	}
	s, err := app.Settings.Load(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDay(plan, s.DayDuration))
	return nil
}

// readText joins args, or reads stdin when the only arg is "-".
func readText(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func newDumpCmd(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Show or replace the day's brain dump",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Planner.Day(cmd.Context(), flags.date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Placeholder(plan.BrainDump))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <text...|->",
		Short: "Replace the brain dump (\"-\" reads stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if err := app.Planner.SetBrainDump(cmd.Context(), flags.date, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Brain dump saved for %s.\n", flags.date)
			return nil
		},
	})
	return cmd
}

func newGoalsCmd(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show, set or generate the day's top goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Planner.Day(cmd.Context(), flags.date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGoals(plan.TopGoals))
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <goal> [goal...]",
			Short: "Replace the top goals, one argument per goal",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Planner.SetTopGoals(cmd.Context(), flags.date, args); err != nil {
					return err
				}
				plan, err := app.Planner.Day(cmd.Context(), flags.date)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGoals(plan.TopGoals))
				return nil
			},
		},
		&cobra.Command{
			Use:   "generate",
			Short: "Suggest top goals from your North Star and brain dump",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Picking today's top goals...")
				goals, err := app.Planner.GenerateTopGoals(cmd.Context(), flags.date, app.Identity)
				stop()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGoals(goals))
				return nil
			},
		},
	)
	return cmd
}

func newDayCmd(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show a whole day, or move it in and out as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDay(cmd, app, flags.date)
		},
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the day as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Planner.Day(cmd.Context(), flags.date)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(importer.FromPlan(plan), "", "  ")
			if err != nil {
				return err
			}
			b = append(b, '\n')
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s.\n", plan.Date, out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "File to write (default stdout)")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved days, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Planner.Days(cmd.Context(), limit)
			if err != nil {
				return err
			}
			s, err := app.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDays(plans, s.DayDuration))
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 30, "Most days to show")

	cmd.AddCommand(
		list,
		export,
		&cobra.Command{
			Use:   "import <file|->",
			Short: "Replace a day from a JSON file; the file's date is used",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				file, err := importer.LoadDayFile(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}
				if errs := importer.ValidateDayFile(file); len(errs) > 0 {
					return fmt.Errorf("%s is not a valid day file:\n%w", args[0], errors.Join(errs...))
				}
				plan, err := importer.Convert(file)
				if err != nil {
					return err
				}
				if plan, err = app.Planner.Import(cmd.Context(), plan); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s with %d timeboxes.\n", plan.Date, len(plan.Items))
				return nil
			},
		},
	)
	return cmd
}
