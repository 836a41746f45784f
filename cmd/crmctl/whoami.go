package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func whoamiCmd(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			status := app.Session.Read()
			if !status.Authenticated {
				fmt.Println("Not signed in.")
				return nil
			}

			fmt.Printf("Signed in: realm=%s role=%s\n", status.Realm, status.Role)
			return nil
		},
	}
}
