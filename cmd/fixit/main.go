// Command fixit is a headless client for the FixIt marketplace backend.
// Each subcommand plays the role of one screen of the mobile app: it reads
// the cached session, calls the backend, and prints the result. Any error
// surfaces as a single alert-style line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fixit237/fixit-go/internal/infrastructure/config"
	"github.com/fixit237/fixit-go/pkg/logger"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app, err := newApp(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		// The screen boundary: every failure becomes one alert line.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: fixit <command> [flags]

Session
  route                         show the screen the app would open on launch
  login -email -password        sign in and cache the session
  signup -name -email -password -role [-phone]
  logout                        clear the cached session
  whoami                        show the cached user and token claims
  onboarding-seen               mark the intro carousel as completed
  theme [dark|light|toggle]     show or change the theme preference

Artisan onboarding
  questionnaire -answers "a1,…,a10"   submit the vetting questionnaire
  idcard -file <image>                upload the identity document

Marketplace
  artisans [-category] [-lat -long]   browse the artisan directory
  profile [flags]                     update the cached user's profile
  upload -file <image>                upload an avatar/portfolio image

Bookings
  book -artisan -service -date -time -description [-address -lat -long]
  bookings [-filter pending|accepted|completed|declined]
  accept <booking-id>
  decline <booking-id>

Chat & notifications
  conversations                 list chat threads
  chat -with <user-id> [-send <text>] [-watch]
  notifications [list|read <id>|read-all]

Development
  fakeserver [-addr :8000]      run the in-memory backend
`)
}
