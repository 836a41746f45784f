package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/otp"
)

const (
	defaultAPIAddr        = "http://localhost:8000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultEnvironment    = logger.EnvDevelopment
	defaultOtpLength      = otp.DefaultLength
	defaultResendCooldown = 60
)

type Config struct {
	// Default logging level
	LogLevel string

	// Base address of the portal backend
	APIAddr string

	// Path of the persisted session file; empty means the per-user
	// config directory
	SessionFile string

	// Width of the one-time code the backend issues
	OtpLength int

	// Seconds a patient waits before a new code may be requested
	ResendCooldown int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		APIAddr:        defaultAPIAddr,
		OtpLength:      defaultOtpLength,
		ResendCooldown: defaultResendCooldown,
		Environment:    defaultEnvironment,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if n, err := strconv.Atoi(value); err == nil {
				*o = n
			}
		}
	}

	envMap := map[string]func(string){
		"API_ADDRESS":     setString(&c.APIAddr),
		"SESSION_FILE":    setString(&c.SessionFile),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
		"OTP_LENGTH":      setInt(&c.OtpLength),
		"RESEND_COOLDOWN": setInt(&c.ResendCooldown),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

// RegisterFlags binds the config to a flag set; cobra hands us its
// pflag-backed persistent set
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.APIAddr, "api", "a", c.APIAddr, "Portal backend address")
	fs.StringVarP(&c.SessionFile, "session-file", "f", c.SessionFile, "Path of the persisted session file")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.IntVar(&c.OtpLength, "otp-length", c.OtpLength, "Width of the one-time code")
	fs.IntVar(&c.ResendCooldown, "resend-cooldown", c.ResendCooldown, "Seconds before a new code may be requested")
}

// SessionFilePath resolves the session file location, defaulting to the
// per-user config directory.
func (c *Config) SessionFilePath() (string, error) {
	if c.SessionFile != "" {
		return c.SessionFile, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "crmctl", "session.json"), nil
}
