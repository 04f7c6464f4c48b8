package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/ports"
	"github.com/fixit237/fixit-go/internal/core/service"
	"github.com/fixit237/fixit-go/internal/infrastructure/config"
	"github.com/fixit237/fixit-go/internal/infrastructure/gateway"
	redisstore "github.com/fixit237/fixit-go/internal/infrastructure/store/redis"
	sqlitestore "github.com/fixit237/fixit-go/internal/infrastructure/store/sqlite"
	"github.com/fixit237/fixit-go/internal/validate"
)

var errUsage = errors.New("usage")

// app wires the session store, gateway and services together, the way the
// mobile shell wires screens to contexts.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	store         ports.SessionStore
	validator     *validate.Validator
	session       *service.SessionService
	router        *service.SessionRouter
	onboarding    *service.OnboardingService
	bookings      *service.BookingWorkflow
	chat          *service.ChatService
	notifications *service.NotificationFeed
	directory     *service.DirectoryService
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: store}

	client := gateway.NewClient(gateway.Options{
		BaseURL:   cfg.APIBaseURL,
		ServerURL: cfg.ServerURL,
		Timeout:   cfg.HTTPTimeout,
		Token: func(ctx context.Context) string {
			return a.session.Token(ctx)
		},
		OnUnauthorized: func(ctx context.Context) {
			if err := store.Remove(ctx, ports.KeyToken, ports.KeyUser); err != nil {
				log.Warn().Err(err).Msg("failed to clear session after 401")
			}
		},
		Logger: log,
	})

	auth := gateway.NewAuthGateway(client)
	artisans := gateway.NewArtisanGateway(client)
	users := gateway.NewUserGateway(client)
	bookingAPI := gateway.NewBookingGateway(client)
	chatAPI := gateway.NewChatGateway(client)
	notificationAPI := gateway.NewNotificationGateway(client)

	validator := validate.New()
	a.validator = validator

	a.session = service.NewSessionService(store, auth, log)
	a.router = service.NewSessionRouter(a.session, log)
	a.onboarding = service.NewOnboardingService(a.session, a.router, artisans, log)
	a.bookings = service.NewBookingWorkflow(bookingAPI, validator, log)
	a.chat = service.NewChatService(chatAPI, a.session, cfg.PollInterval, log)
	a.notifications = service.NewNotificationFeed(notificationAPI, log)
	a.directory = service.NewDirectoryService(artisans, users, a.session, log)

	return a, nil
}

func openStore(cfg *config.Config, log zerolog.Logger) (ports.SessionStore, error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := redisstore.Connect(context.Background(), redisstore.Config{
			Addr: cfg.Store.Redis.Addr,
			DB:   cfg.Store.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		log.Debug().Str("addr", cfg.Store.Redis.Addr).Msg("using redis session store")
		return redisstore.NewStore(client), nil
	case "sqlite", "":
		store, err := sqlitestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// serveMetrics exposes the Prometheus registry for long-running commands
// when a metrics address is configured.
func (a *app) serveMetrics() {
	if a.cfg.MetricsAddr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil {
			a.log.Warn().Err(err).Str("addr", a.cfg.MetricsAddr).Msg("metrics listener stopped")
		}
	}()
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "route":
		return a.cmdRoute(ctx)
	case "login":
		return a.cmdLogin(ctx, args)
	case "signup":
		return a.cmdSignup(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "onboarding-seen":
		return a.cmdOnboardingSeen(ctx)
	case "theme":
		return a.cmdTheme(ctx, args)
	case "questionnaire":
		return a.cmdQuestionnaire(ctx, args)
	case "idcard":
		return a.cmdIDCard(ctx, args)
	case "artisans":
		return a.cmdArtisans(ctx, args)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "upload":
		return a.cmdUpload(ctx, args)
	case "book":
		return a.cmdBook(ctx, args)
	case "bookings":
		return a.cmdBookings(ctx, args)
	case "accept":
		return a.cmdUpdateBooking(ctx, args, "accepted")
	case "decline":
		return a.cmdUpdateBooking(ctx, args, "declined")
	case "conversations":
		return a.cmdConversations(ctx)
	case "chat":
		return a.cmdChat(ctx, args)
	case "notifications":
		return a.cmdNotifications(ctx, args)
	case "fakeserver":
		return a.cmdFakeServer(ctx, args)
	default:
		return errUsage
	}
}
