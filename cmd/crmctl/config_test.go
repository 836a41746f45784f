package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("set default option", func(t *testing.T) {
		c := NewConfig()

		require.Equal(t, "http://localhost:8000", c.APIAddr, "default api address not set")
		require.Equal(t, "info", c.LogLevel, "default log level not set")
		require.Equal(t, "dev", c.Environment, "default environment not set")
		require.Equal(t, "", c.SessionFile, "session file should be empty by default")
		require.Equal(t, 5, c.OtpLength, "default otp length not set")
		require.Equal(t, 60, c.ResendCooldown, "default resend cooldown not set")
	})

	t.Run("load env", func(t *testing.T) {
		c := NewConfig()
		getenv := func(key string) string {
			switch key {
			case "API_ADDRESS":
				return "https://portal.example.org"
			case "SESSION_FILE":
				return "/tmp/session.json"
			case "LOG_LEVEL":
				return "debug"
			case "ENVIRONMENT":
				return "prod"
			case "OTP_LENGTH":
				return "6"
			case "RESEND_COOLDOWN":
				return "30"
			default:
				return ""
			}
		}

		c.LoadEnv(getenv)

		require.Equal(t, "https://portal.example.org", c.APIAddr)
		require.Equal(t, "/tmp/session.json", c.SessionFile)
		require.Equal(t, "debug", c.LogLevel)
		require.Equal(t, "prod", c.Environment)
		require.Equal(t, 6, c.OtpLength)
		require.Equal(t, 30, c.ResendCooldown)
	})

	t.Run("empty env keeps defaults", func(t *testing.T) {
		c := NewConfig()

		c.LoadEnv(func(string) string { return "" })

		require.Equal(t, "http://localhost:8000", c.APIAddr)
		require.Equal(t, 5, c.OtpLength)
	})

	t.Run("parse flags", func(t *testing.T) {
		tests := []struct {
			name  string
			flags []string
		}{
			{
				name: "short",
				flags: []string{
					"-a", "https://portal.example.org",
					"-f", "/tmp/session.json",
					"-l", "debug",
					"-e", "prod",
				},
			},
			{
				name: "long",
				flags: []string{
					"--api", "https://portal.example.org",
					"--session-file", "/tmp/session.json",
					"--log-level", "debug",
					"--environment", "prod",
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := NewConfig()
				fs := pflag.NewFlagSet("crmctl", pflag.ContinueOnError)
				c.RegisterFlags(fs)

				err := fs.Parse(tt.flags)

				require.NoError(t, err, "correct flags must parse without error")
				require.Equal(t, "https://portal.example.org", c.APIAddr)
				require.Equal(t, "/tmp/session.json", c.SessionFile)
				require.Equal(t, "debug", c.LogLevel)
				require.Equal(t, "prod", c.Environment)
			})
		}
	})

	t.Run("session file path falls back to user config dir", func(t *testing.T) {
		c := NewConfig()
		c.SessionFile = "/explicit/session.json"

		path, err := c.SessionFilePath()

		require.NoError(t, err)
		require.Equal(t, "/explicit/session.json", path)
	})
}
