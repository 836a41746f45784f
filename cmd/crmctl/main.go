package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	config := NewConfig()

	rootCmd := &cobra.Command{
		Use:   "crmctl",
		Short: "Command-line client for the clinical-study portal",
		Long: `crmctl talks to the clinical-study portal backend the way the web
portal does: staff sign in with username and password, patients with a
one-time code sent to their phone. The session survives between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags are already parsed; fill the gaps from .env and the
			// process environment without overriding explicit flags.
			fromFlags := *config

			if err := config.LoadDotEnv(os.Getwd); err != nil {
				return err
			}
			config.LoadEnv(os.Getenv)

			restoreChanged(cmd, config, &fromFlags)
			return nil
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		loginCmd(config),
		patientCmd(config),
		logoutCmd(config),
		whoamiCmd(config),
		openCmd(config),
		getCmd(config),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// restoreChanged puts values set by explicit flags back on top of what
// the environment loaded, so the precedence is defaults < .env < env <
// flags.
func restoreChanged(cmd *cobra.Command, config *Config, fromFlags *Config) {
	flags := cmd.Flags()
	if flags.Changed("api") {
		config.APIAddr = fromFlags.APIAddr
	}
	if flags.Changed("session-file") {
		config.SessionFile = fromFlags.SessionFile
	}
	if flags.Changed("log-level") {
		config.LogLevel = fromFlags.LogLevel
	}
	if flags.Changed("environment") {
		config.Environment = fromFlags.Environment
	}
	if flags.Changed("otp-length") {
		config.OtpLength = fromFlags.OtpLength
	}
	if flags.Changed("resend-cooldown") {
		config.ResendCooldown = fromFlags.ResendCooldown
	}
}
