package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/common"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage backend authentication",
	}

	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())

	return cmd
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			email, err := client.Profile(cmd.Context())
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					fmt.Println(cli.FormatWarning("Not signed in. Run 'invoiceflow auth login'."))
					return nil
				}
				return fmt.Errorf("failed to get profile: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Signed in as " + email))
			return nil
		},
	}
}

func authLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long:  `Establish a session against the backend's configured mail account. The backend owns the credentials; the CLI only opens the session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			email, err := client.Login(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Signed in as " + email))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			if err := client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Signed out."))
			return nil
		},
	}
}
