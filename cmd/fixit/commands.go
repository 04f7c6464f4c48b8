package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
	"github.com/fixit237/fixit-go/internal/core/service"
	"github.com/fixit237/fixit-go/internal/gatewaytest"
)

func (a *app) cmdRoute(ctx context.Context) error {
	fmt.Println(a.router.Route(ctx))
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s (%s)\n", user.Profile.Name, user.Role)
	fmt.Printf("next screen: %s\n", a.router.RouteUser(user))
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "customer", "customer or artisan")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := ports.SignupInput{Name: *name, Email: *email, Password: *password, Role: *role, Phone: *phone}
	if err := a.validator.Struct(input); err != nil {
		return err
	}

	user, err := a.session.Signup(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s (%s)\n", user.Email, user.Role)
	fmt.Printf("next screen: %s\n", a.router.RouteUser(user))
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	user, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s onboardingStep=%d\n", user.Profile.Name, user.Email, user.Role, user.Profile.OnboardingStep)

	if claims, err := a.session.Claims(ctx); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			fmt.Printf("token expires: %s\n", exp.Time.Format("2006-01-02 15:04:05 MST"))
		}
	}
	return nil
}

func (a *app) cmdOnboardingSeen(ctx context.Context) error {
	if err := a.session.MarkOnboardingSeen(ctx); err != nil {
		return err
	}
	fmt.Println("Onboarding marked as seen")
	return nil
}

func (a *app) cmdTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println(a.session.Theme(ctx))
		return nil
	}
	switch args[0] {
	case "toggle":
		next, err := a.session.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Println(next)
		return nil
	default:
		if err := a.session.SetTheme(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(args[0])
		return nil
	}
}

func (a *app) cmdQuestionnaire(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("questionnaire", flag.ContinueOnError)
	answers := fs.String("answers", "", "comma-separated answers to the 10 vetting questions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen, err := a.onboarding.SubmitQuestionnaire(ctx, strings.Split(*answers, ","))
	if err != nil {
		return err
	}
	fmt.Println("Questionnaire completed!")
	fmt.Printf("next screen: %s\n", screen)
	return nil
}

func (a *app) cmdIDCard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("idcard", flag.ContinueOnError)
	file := fs.String("file", "", "path to the ID image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen, err := a.onboarding.UploadIDCard(ctx, *file)
	if err != nil {
		return err
	}
	fmt.Println("ID uploaded, onboarding complete!")
	fmt.Printf("next screen: %s\n", screen)
	return nil
}

func (a *app) cmdArtisans(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("artisans", flag.ContinueOnError)
	category := fs.String("category", "", "skill category filter")
	lat := fs.Float64("lat", 0, "latitude")
	long := fs.Float64("long", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	artisans, err := a.directory.Search(ctx, ports.ArtisanSearch{Category: *category, Lat: *lat, Long: *long})
	if err != nil {
		return err
	}
	if len(artisans) == 0 {
		fmt.Println("No artisans found")
		return nil
	}
	for _, artisan := range artisans {
		fmt.Printf("%s  %-20s  %.1f★ (%d)  %s\n",
			artisan.ID, artisan.Profile.Name, artisan.Profile.Rating,
			artisan.Profile.ReviewCount, strings.Join(artisan.Profile.Skills, ", "))
	}
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	bio := fs.String("bio", "", "short bio")
	skills := fs.String("skills", "", "comma-separated skill list")
	experience := fs.String("experience", "", "years of experience")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update ports.ProfileUpdate
	if *name != "" {
		update.Name = name
	}
	if *phone != "" {
		update.Phone = phone
	}
	if *bio != "" {
		update.Bio = bio
	}
	if *skills != "" {
		update.Skills = strings.Split(*skills, ",")
	}
	if *experience != "" {
		update.Experience = experience
	}

	user, err := a.directory.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated for %s\n", user.Profile.Name)
	return nil
}

func (a *app) cmdUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	file := fs.String("file", "", "path to the image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	url, err := a.directory.UploadImage(ctx, *file)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

func (a *app) cmdBook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	artisan := fs.String("artisan", "", "artisan id")
	serviceType := fs.String("service", "", "service type")
	date := fs.String("date", "", "requested date (YYYY-MM-DD)")
	timeOfDay := fs.String("time", "", "requested time (HH:MM)")
	description := fs.String("description", "", "what needs doing")
	address := fs.String("address", "", "street address")
	lat := fs.Float64("lat", 0, "latitude")
	long := fs.Float64("long", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	booking, err := a.bookings.Create(ctx, ports.CreateBookingInput{
		ArtisanID:   *artisan,
		ServiceType: *serviceType,
		Date:        *date,
		Time:        *timeOfDay,
		Description: *description,
		Location: domain.Location{
			Address:     *address,
			Coordinates: domain.Coordinates{Lat: *lat, Long: *long},
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("Booking %s created with %s (%s)\n", booking.ID, booking.Artisan.Name, booking.Status.Normalize())
	return nil
}

func (a *app) cmdBookings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	filter := fs.String("filter", "", "pending, accepted, completed or declined")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.bookings.List(ctx)
	if err != nil {
		return err
	}
	if *filter != "" {
		list = service.Filter(list, domain.FilterBucket(*filter))
	}
	if len(list) == 0 {
		fmt.Println("No bookings")
		return nil
	}
	for _, b := range list {
		actions := ""
		if b.Status.Actionable() {
			actions = "  [accept/decline]"
		}
		fmt.Printf("%s  %-12s  %s %s  %s ↔ %s  %s%s\n",
			b.ID, b.ServiceType, b.Date, b.Time, b.Customer.Name, b.Artisan.Name, b.Status.Normalize(), actions)
	}
	return nil
}

func (a *app) cmdUpdateBooking(ctx context.Context, args []string, status string) error {
	if len(args) != 1 {
		return errUsage
	}

	list, err := a.bookings.UpdateStatus(ctx, args[0], domain.BookingStatus(status))
	if err != nil {
		return err
	}
	fmt.Printf("Booking %s %s\n", args[0], status)
	fmt.Printf("%d bookings on file\n", len(list))
	return nil
}

func (a *app) cmdConversations(ctx context.Context) error {
	convos, err := a.chat.Conversations(ctx)
	if err != nil {
		return err
	}
	if len(convos) == 0 {
		fmt.Println("No conversations")
		return nil
	}
	for _, convo := range convos {
		fmt.Printf("%s  %-20s  %s  (%s)\n", convo.UserID, convo.Name, convo.LastMessage, convo.LastAt.Format("Jan 2 15:04"))
	}
	return nil
}

func (a *app) cmdChat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	with := fs.String("with", "", "counterpart user id")
	send := fs.String("send", "", "send one message and exit")
	watch := fs.Bool("watch", false, "keep the thread open, polling for new messages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *with == "" {
		return errUsage
	}

	poller, err := a.chat.OpenThread(ctx, *with)
	if err != nil {
		return err
	}

	if !*watch {
		poller.Start(ctx)
		defer poller.Stop()
		if *send != "" {
			poller.Send(ctx, *send)
		}
		printThread(poller.Messages())
		return nil
	}

	a.serveMetrics()

	// Watch mode: print new messages on every poll, read outgoing lines
	// from stdin until interrupted. OnUpdate runs on the poller goroutine
	// and on sends, so the high-water mark needs a lock.
	var mu sync.Mutex
	printed := 0
	poller.OnUpdate = func(msgs []*domain.Message) {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range msgs[min(printed, len(msgs)):] {
			fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.Sender, m.Content)
		}
		printed = len(msgs)
	}
	poller.Start(ctx)
	defer poller.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		poller.Send(ctx, line)
	}
	<-ctx.Done()
	return nil
}

func printThread(msgs []*domain.Message) {
	if len(msgs) == 0 {
		fmt.Println("No messages")
		return
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.Sender, m.Content)
	}
}

func (a *app) cmdNotifications(ctx context.Context, args []string) error {
	action := "list"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "list":
		list, err := a.notifications.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No notifications")
			return nil
		}
		for _, n := range list {
			marker := " "
			if !n.Read {
				marker = "*"
			}
			fmt.Printf("%s %s  [%s] %s: %s\n", marker, n.ID, n.Type, n.Title, n.Message)
		}
		return nil
	case "read":
		if len(args) != 2 {
			return errUsage
		}
		if err := a.notifications.MarkRead(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Marked as read")
		return nil
	case "read-all":
		if err := a.notifications.MarkAllRead(ctx); err != nil {
			return err
		}
		fmt.Println("All marked as read")
		return nil
	default:
		return errUsage
	}
}

// cmdFakeServer runs the in-memory backend with a couple of demo accounts,
// for trying the client without a real deployment.
func (a *app) cmdFakeServer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fakeserver", flag.ContinueOnError)
	addr := fs.String("addr", ":8000", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := gatewaytest.New("fixit-dev-secret")
	srv.SeedAccount("client@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "Demo Client"})
	srv.SeedAccount("artisan@example.com", "secret123", domain.RoleArtisan, domain.Profile{
		Name:           "Demo Artisan",
		Skills:         []string{"plumbing", "electrical"},
		Experience:     "8 years",
		Rating:         4.6,
		ReviewCount:    23,
		Available:      true,
		OnboardingStep: domain.OnboardingStepComplete,
	})

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()

	a.log.Info().Str("addr", *addr).Msg("fake backend listening")
	fmt.Printf("fake backend on %s (accounts: client@example.com / artisan@example.com, password secret123)\n", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
