package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd(config *Config) *cobra.Command {
	var username string
	var returnTo string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as staff with username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			if username == "" {
				fmt.Print("Username: ")
				if _, err := fmt.Scanln(&username); err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			s, err := app.Staff.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as %s (%s)\n", username, s.Role)

			// Return the user to the path they originally attempted
			if returnTo != "" {
				return openPath(cmd, app, returnTo)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Staff username")
	cmd.Flags().StringVar(&returnTo, "return-to", "", "Path to open after a successful sign-in")

	return cmd
}

// readPassword prompts without echoing when stdin is a terminal, and
// falls back to a plain line read when it is not (tests, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
