package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Gemini API key",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var secretValue string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Gemini API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.SetAPIKey(cmd.Context(), secretValue); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
			return err
		},
	}

	cmd.Flags().StringVar(&secretValue, "secret-value", "", "Gemini API key")
	_ = cmd.MarkFlagRequired("secret-value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored Gemini API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.RemoveAPIKey(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return err
		},
	}
}
