package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amirx1991/crm-sub001/internal/guard"
)

func openCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a portal route through the route guards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}
			return openPath(cmd, app, args[0])
		},
	}

	return cmd
}

func openPath(cmd *cobra.Command, app *App, path string) error {
	v, ok := findView(path)
	if !ok {
		return fmt.Errorf("no route declared for %q", path)
	}

	// The guard answers Loading until the restored session is resolved
	if d := evaluate(app, v); d.Action == guard.ActionLoading {
		fmt.Println("Checking session...")
		app.Resolve(cmd.Context())
	}

	d := evaluate(app, v)
	switch d.Action {
	case guard.ActionRender:
		return render(cmd, app, v)

	case guard.ActionRedirect:
		if d.ReturnTo != "" {
			fmt.Printf("Redirected to %s (sign in to continue to %s)\n", d.RedirectTo, d.ReturnTo)
		} else {
			fmt.Printf("Redirected to %s\n", d.RedirectTo)
		}
		return nil

	default:
		return fmt.Errorf("session resolution did not finish")
	}
}

func evaluate(app *App, v view) guard.Decision {
	if v.PublicOnly {
		return app.Guard.PublicOnly(v.Route)
	}
	return app.Guard.Protected(v.Route)
}

// render fetches the route's backend resource and prints it
func render(cmd *cobra.Command, app *App, v view) error {
	fmt.Printf("-- %s --\n", v.Route.Path)
	if v.Resource == "" {
		// Sign-in pages have no backend resource behind them
		fmt.Println("(sign-in form)")
		return nil
	}

	var payload any
	if err := app.Client.Get(cmd.Context(), v.Resource, &payload); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func getCmd(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get <api-path>",
		Short: "Issue a guarded GET against the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			var payload any
			if err := app.Client.Get(cmd.Context(), args[0], &payload); err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
}
