package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timebox/internal/keyring"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage credentials for Google Calendar and the model API",
	}

	key := &cobra.Command{
		Use:   "key",
		Short: "Store or remove the model API key in the OS keyring",
	}
	key.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: "Store the API key (reads stdin when no argument is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Secrets == nil {
					return keyring.ErrUnavailable
				}
				value := ""
				if len(args) == 1 {
					value = args[0]
				} else {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("reading API key: %w", err)
					}
					value = line
				}
				if err := app.Secrets.Set(keyring.LLMAPIKey, strings.TrimSpace(value)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key stored in the OS keyring.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Secrets == nil {
					return keyring.ErrUnavailable
				}
				if err := app.Secrets.Delete(keyring.LLMAPIKey); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
				return nil
			},
		},
	)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "google",
			Short: "Authorize timebox to write to your Google Calendar",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Authorize == nil {
					return fmt.Errorf("google authorization is not configured")
				}
				if err := app.Authorize(cmd.Context(), cmd.OutOrStdout()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Google Calendar authorized.")
				return nil
			},
		},
		key,
	)
	return cmd
}
