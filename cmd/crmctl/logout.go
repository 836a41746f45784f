package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			if !app.Session.Read().Authenticated {
				fmt.Println("Not signed in.")
				return nil
			}

			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("Signed out.")
			return nil
		},
	}
}
