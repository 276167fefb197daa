package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
)

func newSettingsCmd(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change your planning context",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show all settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.Settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(s))
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Set one setting",
			Long:      "Set one setting. Windows take HH:MM-HH:MM, working_duration takes minutes (15-120).",
			Args:      cobra.ExactArgs(2),
			ValidArgs: domain.SettingKeys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.Settings.Set(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s.\n", args[0])
				return reconcileAfterWindowChange(cmd, app, flags.date, args[0], s)
			},
		},
		&cobra.Command{
			Use:       "unset <key>",
			Short:     "Reset one setting to its default",
			Args:      cobra.ExactArgs(1),
			ValidArgs: domain.SettingKeys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.Settings.Unset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unset %s.\n", args[0])
				return reconcileAfterWindowChange(cmd, app, flags.date, args[0], s)
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit settings in an interactive form",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := app.Settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				values := newSettingsValues(current)
				if err := settingsForm(values).Run(); err != nil {
					return err
				}
				next, err := values.apply(current)
				if err != nil {
					return err
				}
				saved, err := app.Settings.Save(cmd.Context(), next)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(saved))
				if saved.DayDuration != current.DayDuration {
					return reconcileAfterWindowChange(cmd, app, flags.date, domain.SettingDayDuration, saved)
				}
				return nil
			},
		},
	)
	return cmd
}

// reconcileAfterWindowChange pulls the selected day's items back inside a
// changed day window.
func reconcileAfterWindowChange(cmd *cobra.Command, app *App, date, key string, s domain.Settings) error {
	if key != domain.SettingDayDuration {
		return nil
	}
	n, err := app.Planner.ReconcileWindow(cmd.Context(), date)
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Adjusted %d item(s) on %s to fit %s.\n", n, date, s.DayDuration)
	}
	return nil
}

// settingsValues holds the string form of every field while editing.
type settingsValues struct {
	Name, NorthStar, Profile, Hobbies string
	DayStart, DayEnd                  string
	CoreTime                          string
	WorkingDuration                   string
	Fasting                           bool
}

func newSettingsValues(s domain.Settings) *settingsValues {
	v := &settingsValues{
		Name:      s.Name,
		NorthStar: s.NorthStar,
		Profile:   s.Profile,
		Hobbies:   s.Hobbies,
		DayStart:  s.DayDuration.Start.String(),
		DayEnd:    s.DayDuration.End.String(),
		Fasting:   s.IntermittentFasting,
	}
	if s.CoreTime != nil {
		v.CoreTime = s.CoreTime.Start.String() + "-" + s.CoreTime.End.String()
	}
	if s.WorkingDuration > 0 {
		v.WorkingDuration = strconv.Itoa(s.WorkingDuration)
	}
	return v
}

// apply folds the edited values into base. Blank core time and working
// duration clear those settings.
func (v *settingsValues) apply(base domain.Settings) (domain.Settings, error) {
	s := base
	s.Name = strings.TrimSpace(v.Name)
	s.NorthStar = strings.TrimSpace(v.NorthStar)
	s.Profile = strings.TrimSpace(v.Profile)
	s.Hobbies = strings.TrimSpace(v.Hobbies)
	s.IntermittentFasting = v.Fasting

	if err := s.Apply(domain.SettingDayDuration, v.DayStart+"-"+v.DayEnd); err != nil {
		return base, err
	}
	if strings.TrimSpace(v.CoreTime) == "" {
		_ = s.Clear(domain.SettingCoreTime)
	} else if err := s.Apply(domain.SettingCoreTime, v.CoreTime); err != nil {
		return base, err
	}
	if strings.TrimSpace(v.WorkingDuration) == "" {
		_ = s.Clear(domain.SettingWorkingDuration)
	} else if err := s.Apply(domain.SettingWorkingDuration, v.WorkingDuration); err != nil {
		return base, err
	}
	return s, nil
}

func validateClock(s string) error {
	_, err := domain.ParseClock(strings.TrimSpace(s))
	return err
}

func settingsForm(v *settingsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.Name),
			huh.NewText().Title("North Star").Description("The long-term goal your days serve").Value(&v.NorthStar),
			huh.NewInput().Title("Profile").Description("A line about you, for the planner").Value(&v.Profile),
			huh.NewInput().Title("Hobbies").Value(&v.Hobbies),
		),
		huh.NewGroup(
			huh.NewInput().Title("Day starts").Placeholder("05:00").Value(&v.DayStart).Validate(validateClock),
			huh.NewInput().Title("Day ends").Placeholder("21:00").Description("00:00 means midnight").Value(&v.DayEnd).Validate(validateClock),
			huh.NewInput().Title("Core time").Placeholder("09:00-12:00").Description("Blank for none").Value(&v.CoreTime),
			huh.NewInput().Title("Focus block minutes").Placeholder("50").Description("15-120, blank for none").Value(&v.WorkingDuration),
			huh.NewConfirm().Title("Intermittent fasting?").Value(&v.Fasting),
		),
	).WithTheme(timeboxHuhTheme()).WithShowHelp(false)
}
