package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/otp"
)

func patientCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Patient-realm commands",
	}

	cmd.AddCommand(patientLoginCmd(config))
	return cmd
}

func patientLoginCmd(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "login <phone>",
		Short: "Sign in as a patient with a one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			phone := args[0]
			if err := app.Patient.RequestCode(cmd.Context(), phone); err != nil {
				return err
			}
			fmt.Printf("A %d-digit code was sent to %s.\n", config.OtpLength, phone)

			entry := &otpEntry{
				app:      app,
				phone:    phone,
				buffer:   otp.NewBuffer(config.OtpLength),
				cooldown: otp.NewCooldown(config.ResendCooldown),
				seconds:  config.ResendCooldown,
			}
			return entry.run(cmd.Context())
		},
	}
}

// otpEntry drives the code-entry state machines from line input: digits
// fill the buffer, 'b' is backspace, 'r' requests a new code once the
// cooldown has run out.
type otpEntry struct {
	app      *App
	phone    string
	buffer   *otp.Buffer
	cooldown *otp.Cooldown
	seconds  int

	stopTicker context.CancelFunc
}

func (e *otpEntry) run(ctx context.Context) error {
	// The ticker must die with the entry view, not outlive it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.startCooldown(ctx)
	fmt.Println("Type the code digit by digit or paste it whole. 'b' erases, 'r' resends, 'q' quits.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "q":
			return errors.New("sign-in aborted")

		case line == "r":
			if err := e.resend(ctx); err != nil {
				return err
			}

		case line == "b":
			e.buffer.Backspace(e.buffer.Focus())
			fmt.Printf("Code so far: %s\n", e.buffer.Code())

		default:
			done, err := e.feed(ctx, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return errors.New("sign-in aborted")
}

// feed applies one line of input to the buffer and verifies on completion
func (e *otpEntry) feed(ctx context.Context, line string) (bool, error) {
	var event otp.Event
	if chars := []rune(line); len(chars) == 1 {
		event = e.buffer.Digit(e.buffer.Focus(), chars[0])
	} else {
		event = e.buffer.Paste(line)
	}

	if !event.Done {
		fmt.Printf("Code so far: %s\n", e.buffer.Code())
		return false, nil
	}

	s, err := e.app.Patient.VerifyCode(ctx, e.phone, event.Code)
	switch {
	case errors.Is(err, apperrors.ErrOtpRejected):
		// Phone and cooldown stay as they are; the patient may retry
		fmt.Printf("%s\n", err)
		e.buffer.Reset()
		return false, nil
	case err != nil:
		return false, err
	}

	fmt.Printf("Signed in (%s)\n", s.Role)
	return true, nil
}

func (e *otpEntry) resend(ctx context.Context) error {
	if e.cooldown.Active() {
		fmt.Printf("Please wait %d more seconds before requesting a new code.\n", e.cooldown.Remaining())
		return nil
	}

	if err := e.app.Patient.RequestCode(ctx, e.phone); err != nil {
		return err
	}

	// A fresh code invalidates whatever was typed so far
	e.buffer.Reset()
	e.cooldown.Restart(e.seconds)
	e.startCooldown(ctx)

	fmt.Println("A new code was sent.")
	return nil
}

func (e *otpEntry) startCooldown(ctx context.Context) {
	if e.stopTicker != nil {
		e.stopTicker()
	}

	ctx, cancel := context.WithCancel(ctx)
	e.stopTicker = cancel

	runner := &otp.CooldownRunner{
		Cooldown: e.cooldown,
		Logger:   e.app.Logger,
		OnExpire: func() {
			fmt.Println("You may request a new code now ('r').")
		},
	}
	runner.Run(ctx)
}
