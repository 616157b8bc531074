// Command slock locks every screen of an X display until the user's password is entered.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/MatthiasKunnen/slock/internal/config"
	"github.com/MatthiasKunnen/slock/pkg/account"
	"github.com/MatthiasKunnen/slock/pkg/credential"
	"github.com/MatthiasKunnen/slock/pkg/display"
	"github.com/MatthiasKunnen/slock/pkg/oom"
	"github.com/MatthiasKunnen/slock/pkg/overlay"
	"github.com/MatthiasKunnen/slock/pkg/privilege"
	"github.com/MatthiasKunnen/slock/pkg/screenlock"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("slock: ")

	if err := run(os.Args[1:]); err != nil {
		var grabErr *screenlock.GrabError
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.As(err, &grabErr):
			for _, msg := range grabErr.Failures() {
				log.Print(msg)
			}
		default:
			log.Print(err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	return newCommand().ParseAndRun(context.Background(), args)
}

func newCommand() *ffcli.Command {
	fs := flag.NewFlagSet("slock", flag.ContinueOnError)
	showVersion := fs.Bool("v", false, "print version and exit")
	configPath := fs.String("config", "", "configuration file (default "+config.DefaultPath+" if it exists)")

	return &ffcli.Command{
		Name:       "slock",
		ShortUsage: "slock [-v] [-config path] [cmd [arg ...]]",
		ShortHelp:  "Lock the X display until the user's password is entered.",
		LongHelp: "When cmd is given it is started once every screen is locked, " +
			"for example to turn the monitors off.",
		FlagSet: fs,
		Exec: func(_ context.Context, postLock []string) error {
			if *showVersion {
				fmt.Fprintf(os.Stderr, "slock-%s\n", version)
				return nil
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			return lockDisplay(cfg, postLock)
		},
	}
}

// lockDisplay runs the locker from start-up to a successful unlock.
// It returns nil only after the user authenticated.
func lockDisplay(cfg *config.Config, postLock []string) error {
	target, err := privilege.LookupTarget(cfg.User, cfg.Group)
	if err != nil {
		return err
	}

	if err := oom.Protect(); err != nil {
		return err
	}
	if err := privilege.DisableCoreDumps(); err != nil {
		return err
	}

	hash, err := credential.Resolve(account.Database{}, os.Getuid())
	if err != nil {
		return err
	}
	verifier, err := credential.NewVerifier(hash)
	if err != nil {
		return fmt.Errorf("crypt: %w", err)
	}

	overlays, err := overlay.Render(cfg.Colors.Overlay())
	if err != nil {
		return err
	}

	conn, err := display.OpenX11(cfg.Display)
	if err != nil {
		return err
	}

	desk := openDesktop(cfg.Desktop)
	defer desk.Close()

	if err := privilege.Drop(target); err != nil {
		return err
	}

	grabber := screenlock.NewGrabber(conn, screenlock.GrabberConfig{
		Background: uint32(cfg.Colors.Background),
		Overlays:   overlays,
	})
	session, err := screenlock.Acquire(conn, grabber)
	if err != nil {
		// The screens locked so far stay locked until the process exits.
		return err
	}

	desk.locked()

	if _, err := startPostLock(postLock); err != nil {
		return err
	}

	if err := session.Authenticate(verifier, screenlock.AuthOptions{FailOnClear: cfg.FailOnClear}); err != nil {
		return fmt.Errorf("display connection lost: %w", err)
	}

	desk.unlocked()

	return nil
}
